// pattern: Functional Core

package console

import "strings"

// Syslog severity codes as sent by the device. Lower is more severe.
const (
	LevelEmerg   = 0
	LevelAlert   = 1
	LevelCrit    = 2
	LevelError   = 3
	LevelWarning = 4
	LevelNotice  = 5
	LevelInfo    = 6
	LevelDebug   = 7
)

// Sentinel levels for messages that did not come from the device.
// Console-origin messages (our own stdout/stderr plumbing) are unmaskable;
// anything we cannot classify sinks below every filter threshold.
const (
	LevelConsole = -1
	LevelUnknown = -2
)

// syslogLevelNames maps the filterable device severities to display strings.
// The unused syslog severities stay out of the table until the device emits them.
var syslogLevelNames = map[int]string{
	LevelError:   "ERROR",
	LevelWarning: "WARNING",
	LevelInfo:    "INFO",
	LevelDebug:   "DEBUG",
}

// unmaskableLevelNames holds levels that always pass filtering.
var unmaskableLevelNames = map[int]string{
	LevelConsole: "CONSOLE",
}

// DefaultFilterLevel is the severity threshold applied to a fresh buffer.
const DefaultFilterLevel = LevelWarning

// LevelName returns the display string for a severity code, or "UNKNOWN"
// for codes outside both tables.
func LevelName(level int) string {
	if name, ok := syslogLevelNames[level]; ok {
		return name
	}
	if name, ok := unmaskableLevelNames[level]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel maps a severity name (case-insensitive) to its code.
// Only the filterable syslog severities are recognized; anything else
// maps to LevelUnknown.
func ParseLevel(name string) int {
	for level, n := range syslogLevelNames {
		if strings.EqualFold(name, n) {
			return level
		}
	}
	return LevelUnknown
}

// FilterLevels returns the severity codes a filter threshold may be set to,
// most severe first.
func FilterLevels() []int {
	return []int{LevelError, LevelWarning, LevelInfo, LevelDebug}
}
