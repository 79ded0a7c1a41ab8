// pattern: Functional Core

package console

import (
	"fmt"
	"time"
)

// timestampLayout matches the host-side timestamp shown in the log table.
const timestampLayout = "Jan 02 2006 15:04:05"

// Entry is one log line held by the buffer. It is immutable once created:
// the timestamp is captured at construction and records when the console
// received the message, not when the device produced it.
type Entry struct {
	Level     int
	Timestamp string
	Message   string
}

func newEntryAt(message string, level int, now time.Time) Entry {
	return Entry{
		Level:     level,
		Timestamp: now.Format(timestampLayout),
		Message:   message,
	}
}

// LevelName returns the display string for the entry's severity,
// "UNKNOWN" if the code is not in the level tables.
func (e Entry) LevelName() string {
	return LevelName(e.Level)
}

// MatchesFilter reports whether the entry passes a severity threshold.
// Lower codes are more severe, so an entry passes when its level is at
// or below the threshold. The sentinel levels are negative and therefore
// pass every valid threshold.
func (e Entry) MatchesFilter(threshold int) bool {
	return e.Level <= threshold
}

// LogLine renders the entry in the flat-file mirror format.
func (e Entry) LogLine() string {
	return fmt.Sprintf("%s,%d,%s\n", e.Timestamp, e.Level, e.Message)
}

// Row is the read-only projection handed to table renderers.
type Row struct {
	Timestamp string
	Level     string
	Message   string
}

// Row converts the entry into its display projection.
func (e Entry) Row() Row {
	return Row{
		Timestamp: e.Timestamp,
		Level:     e.LevelName(),
		Message:   e.Message,
	}
}
