// pattern: Imperative Shell

package console

import (
	"os"
	"path/filepath"
	"time"
)

const logFileLayout = "swift-console-20060102-150405.log"

// LogFileName returns the flat-file mirror name for a session started at t.
func LogFileName(t time.Time) string {
	return t.Format(logFileLayout)
}

// OpenLogFile creates the append-only flat-file mirror in dir, named after
// the current session start time. It returns the open file and its path.
func OpenLogFile(dir string, t time.Time) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, LogFileName(t))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}
