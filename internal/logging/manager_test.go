// pattern: Imperative Shell

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Patrick-Luo-THR/piksi-tools/internal/console"
)

func TestNewManager_RequiresFilePath(t *testing.T) {
	_, err := NewManager(Config{}, nil)
	if err == nil {
		t.Fatal("NewManager() error = nil, want error for missing FilePath")
	}
}

func TestManager_WritesFileAndBuffer(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "logs", "console.log")

	buffer := console.NewBuffer(console.BufferConfig{})
	mgr, err := NewManager(Config{FilePath: logPath, Level: "debug"}, buffer)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer mgr.Close()

	mgr.For("tail").Info("device log opened", "path", "device.jsonl")
	_ = mgr.Sync()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "device log opened") {
		t.Errorf("log file %q does not contain the message", string(data))
	}

	entries := buffer.Entries()
	if len(entries) != 1 {
		t.Fatalf("buffer has %d entries, want 1", len(entries))
	}
	if entries[0].Level != console.LevelConsole {
		t.Errorf("Level = %d, want %d", entries[0].Level, console.LevelConsole)
	}
	if !strings.Contains(entries[0].Message, "tail: device log opened") {
		t.Errorf("Message = %q, should contain scope and message", entries[0].Message)
	}
}

func TestManager_NilBuffer(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	mgr, err := NewManager(Config{FilePath: logPath}, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer mgr.Close()

	// Must not panic without a console buffer wired in.
	mgr.For("app").Info("standalone")
}

func TestManager_ForCachesLoggers(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	mgr, err := NewManager(Config{FilePath: logPath}, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer mgr.Close()

	a := mgr.For("telemetry")
	b := mgr.For("telemetry")
	if a != b {
		t.Error("For() returned different loggers for the same scope")
	}

	mgr.Cleanup("telemetry")
	c := mgr.For("telemetry")
	if a == c {
		t.Error("For() returned the evicted logger after Cleanup()")
	}
}

func TestManager_LevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	buffer := console.NewBuffer(console.BufferConfig{})
	mgr, err := NewManager(Config{FilePath: logPath, Level: "warn"}, buffer)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer mgr.Close()

	log := mgr.For("app")
	log.Debug("dropped")
	log.Warn("kept")

	entries := buffer.Entries()
	if len(entries) != 1 {
		t.Fatalf("buffer has %d entries, want 1", len(entries))
	}
	if !strings.Contains(entries[0].Message, "kept") {
		t.Errorf("Message = %q, want the warn record", entries[0].Message)
	}
}
