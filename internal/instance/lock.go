// pattern: Imperative Shell
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "swift-console.lock"
	pathFileName = "console.path"
)

// Lock acquires an exclusive file lock on the output directory so two
// consoles never interleave writes into the same session log file.
// Returns the flock handle (caller must defer Cleanup) or an error if
// another console already holds the lock.
func Lock(outputDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	lockPath := filepath.Join(outputDir, lockFileName)
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another console is already logging to %s", outputDir)
	}
	return fl, nil
}

// WriteLogPath records the active session log file for other tooling.
func WriteLogPath(outputDir, logPath string) error {
	pathFile := filepath.Join(outputDir, pathFileName)
	return os.WriteFile(pathFile, []byte(logPath), 0600)
}

// ReadLogPath returns the session log file recorded by the running console.
func ReadLogPath(outputDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, pathFileName))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Cleanup removes the path file and releases the file lock.
func Cleanup(outputDir string, fl *flock.Flock) {
	pathFile := filepath.Join(outputDir, pathFileName)
	_ = os.Remove(pathFile)
	if fl != nil {
		_ = fl.Unlock()
	}
}
