// pattern: Imperative Shell

package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DeviceRecord is one line of the append-only JSONL log a receiver daemon
// writes alongside the console.
type DeviceRecord struct {
	Ts    float64 `json:"ts"`
	Level int     `json:"level"`
	Msg   string  `json:"msg"`
}

// ParseDeviceRecord parses a JSONL line into a DeviceRecord.
func ParseDeviceRecord(line []byte) (DeviceRecord, error) {
	var rec DeviceRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return DeviceRecord{}, fmt.Errorf("failed to parse device record: %w", err)
	}
	return rec, nil
}

// Follower tails a device JSONL log file and appends each record to a
// Buffer at its device severity. It watches the file with fsnotify and
// keeps a polling safeguard for filesystems that drop events.
type Follower struct {
	filePath string
	buffer   *Buffer
	watcher  *fsnotify.Watcher

	mu     sync.Mutex
	file   *os.File
	offset int64
	closed bool
}

// NewFollower creates a follower for the given device log file.
// Records are appended to the provided buffer.
func NewFollower(filePath string, buffer *Buffer) (*Follower, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Follower{
		filePath: filePath,
		buffer:   buffer,
		watcher:  watcher,
	}, nil
}

// Start begins following the device log file for new records.
// It returns when the context is cancelled.
func (f *Follower) Start(ctx context.Context) error {
	// Watch the parent directory; the file may not exist yet.
	dir := filepath.Dir(f.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create device log directory: %w", err)
	}
	if err := f.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	// Skip content that predates this session.
	f.mu.Lock()
	_ = f.openFile(true)
	f.mu.Unlock()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return ctx.Err()

		case event, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(f.filePath) {
				continue
			}

			if event.Has(fsnotify.Create) {
				f.mu.Lock()
				_ = f.openFile(false)
				f.readNewLines()
				f.mu.Unlock()
			}
			if event.Has(fsnotify.Write) {
				f.mu.Lock()
				f.readNewLines()
				f.mu.Unlock()
			}
			// Rotation shows up as remove/rename; reopen on the next create.
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				f.mu.Lock()
				f.closeFile()
				f.mu.Unlock()
			}

		case <-ticker.C:
			f.mu.Lock()
			if f.file == nil {
				_ = f.openFile(false)
			}
			f.readNewLines()
			f.mu.Unlock()

		case _, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
			// Transient watcher errors are not fatal; the poll ticker
			// keeps the tail moving.
		}
	}
}

// openFile opens the device log file. With seekToEnd the follower skips
// existing content (tail -f behavior); otherwise it reads from the start.
func (f *Follower) openFile(seekToEnd bool) error {
	if f.file != nil {
		return nil
	}

	file, err := os.Open(f.filePath)
	if err != nil {
		return err
	}

	var offset int64
	if seekToEnd {
		offset, err = file.Seek(0, io.SeekEnd)
		if err != nil {
			_ = file.Close()
			return err
		}
	}

	f.file = file
	f.offset = offset
	return nil
}

func (f *Follower) closeFile() {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
		f.offset = 0
	}
}

// readNewLines reads records appended since the last read and feeds them
// to the buffer. Malformed lines are skipped.
func (f *Follower) readNewLines() {
	if f.file == nil {
		return
	}

	// Copytruncate-style rotation shrinks the file in place without a
	// remove event; seeking to the stale offset would land past EOF and
	// silently drop every record after it. Restart from the top.
	if info, err := f.file.Stat(); err == nil && info.Size() < f.offset {
		f.offset = 0
	}

	if _, err := f.file.Seek(f.offset, io.SeekStart); err != nil {
		return
	}

	scanner := bufio.NewScanner(f.file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		rec, err := ParseDeviceRecord(line)
		if err != nil {
			continue
		}
		f.buffer.WriteLevel(rec.Msg, rec.Level)
	}

	if pos, err := f.file.Seek(0, io.SeekCurrent); err == nil {
		f.offset = pos
	}
}

// Close stops the follower and releases resources.
func (f *Follower) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	f.closeFile()
	return f.watcher.Close()
}
