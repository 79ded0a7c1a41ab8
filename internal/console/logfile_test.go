// pattern: Imperative Shell

package console

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLogFileName(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 30, 0, time.UTC)
	want := "swift-console-20250309-140530.log"
	if got := LogFileName(at); got != want {
		t.Errorf("LogFileName() = %q, want %q", got, want)
	}
}

func TestOpenLogFile(t *testing.T) {
	dir := t.TempDir() + "/nested/out"
	at := time.Date(2025, 3, 9, 14, 5, 30, 0, time.UTC)

	f, path, err := OpenLogFile(dir, at)
	if err != nil {
		t.Fatalf("OpenLogFile() error = %v", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, "swift-console-20250309-140530.log") {
		t.Errorf("path = %q, want the session log file name", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stat(%q) error = %v", path, err)
	}

	if _, err := f.WriteString("Mar 09 2025 14:05:30,3,hello\n"); err != nil {
		t.Errorf("WriteString error = %v", err)
	}
}
