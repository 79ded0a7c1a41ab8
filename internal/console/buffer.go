// pattern: Imperative Shell

package console

import (
	"io"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultMaxLen is the buffer cap applied when the config leaves it unset.
const DefaultMaxLen = 250

// BufferConfig holds construction options for a Buffer.
type BufferConfig struct {
	// MaxLen caps the live, filtered and pause buffers. Zero selects
	// DefaultMaxLen; a negative value removes the cap entirely.
	MaxLen int
	// FilterLevel is the initial severity threshold. Zero selects
	// DefaultFilterLevel; use SetFilter for an explicit EMERG threshold.
	FilterLevel int
	// LogFile, when non-nil, receives one LogLine per appended entry.
	// Writes are inline and best-effort; write failures are ignored.
	LogFile io.WriteCloser
}

// Buffer holds the most recent log entries, newest first, together with a
// derived view of the entries passing the current severity threshold.
//
// While paused, new entries accumulate in a side buffer seeded with a
// snapshot of the live list, and the live and filtered lists stay frozen
// for the display. Unpausing swaps the side buffer in and recomputes the
// filtered view from scratch; the view is always a pure projection of the
// live list, never incrementally patched across state changes.
type Buffer struct {
	mu       sync.Mutex
	maxLen   int
	filter   int
	paused   bool
	live     []Entry
	filtered []Entry
	pauseBuf []Entry
	logFile  io.WriteCloser

	clock func() time.Time
}

// NewBuffer creates a buffer with the given configuration.
func NewBuffer(cfg BufferConfig) *Buffer {
	if cfg.MaxLen == 0 {
		cfg.MaxLen = DefaultMaxLen
	}
	if cfg.FilterLevel == 0 {
		cfg.FilterLevel = DefaultFilterLevel
	}
	return &Buffer{
		maxLen:  cfg.MaxLen,
		filter:  cfg.FilterLevel,
		logFile: cfg.LogFile,
		clock:   time.Now,
	}
}

// Write appends a console-origin message. It exists so the program's own
// output plumbing can be redirected into the buffer; entries created here
// are unmaskable. Blank and whitespace-only messages are dropped.
func (b *Buffer) Write(message string) {
	b.append(message, LevelConsole)
}

// WriteLevel appends a message carrying a device severity code.
// Blank and whitespace-only messages are dropped.
func (b *Buffer) WriteLevel(message string, level int) {
	b.append(message, level)
}

func (b *Buffer) append(message string, level int) {
	if strings.TrimSpace(message) == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entry := newEntryAt(message, level, b.clock())

	if b.paused {
		b.pauseBuf = b.prependTruncate(b.pauseBuf, entry)
	} else {
		b.live = b.prependTruncate(b.live, entry)
		if entry.MatchesFilter(b.filter) {
			b.filtered = b.prependTruncate(b.filtered, entry)
		}
	}

	// The flat-file mirror records every entry, paused or not.
	if b.logFile != nil {
		_, _ = io.WriteString(b.logFile, entry.LogLine())
	}
}

// prependTruncate inserts entry at the front of list and evicts the oldest
// entry if the cap is exceeded. The insert can only ever push the list one
// past the cap; anything further means the insert/evict pairing is broken.
func (b *Buffer) prependTruncate(list []Entry, entry Entry) []Entry {
	list = append(list, Entry{})
	copy(list[1:], list)
	list[0] = entry

	if b.maxLen > 0 && len(list) > b.maxLen {
		if len(list)-b.maxLen != 1 {
			panic("console: buffer grew more than one entry past its cap")
		}
		list = list[:b.maxLen]
	}
	return list
}

// SetFilter replaces the severity threshold and rebuilds the filtered view
// from the full live list.
func (b *Buffer) SetFilter(level int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = level
	b.rebuildFilteredLocked()
}

// FilterLevel returns the current severity threshold.
func (b *Buffer) FilterLevel() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// SetPaused toggles diversion of new entries into the pause buffer.
// Pausing snapshots the live list; unpausing promotes the accumulated
// pause buffer to the live list and recomputes the filtered view.
func (b *Buffer) SetPaused(paused bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if paused == b.paused {
		return
	}
	b.paused = paused
	if paused {
		b.pauseBuf = slices.Clone(b.live)
	} else {
		b.live = b.pauseBuf
		b.pauseBuf = nil
		b.rebuildFilteredLocked()
	}
}

// Paused reports whether new entries are being diverted.
func (b *Buffer) Paused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.paused
}

// Clear empties the live, filtered and pause buffers.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.live = nil
	b.filtered = nil
	b.pauseBuf = nil
}

// Len returns the number of entries in the live buffer.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Entries returns a copy of the live buffer, newest first.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.live)
}

// Filtered returns a copy of the filtered view, newest first.
func (b *Buffer) Filtered() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.filtered)
}

// Rows returns the filtered view as display projections, newest first.
// This is the read surface consumed by table renderers.
func (b *Buffer) Rows() []Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := make([]Row, len(b.filtered))
	for i, entry := range b.filtered {
		rows[i] = entry.Row()
	}
	return rows
}

// Close closes the flat-file mirror, if one was configured.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.logFile == nil {
		return nil
	}
	err := b.logFile.Close()
	b.logFile = nil
	return err
}

func (b *Buffer) rebuildFilteredLocked() {
	filtered := make([]Entry, 0, len(b.live))
	for _, entry := range b.live {
		if entry.MatchesFilter(b.filter) {
			filtered = append(filtered, entry)
		}
	}
	b.filtered = filtered
}
