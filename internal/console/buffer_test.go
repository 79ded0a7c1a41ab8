// pattern: Imperative Shell

package console

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// nopWriteCloser wraps a bytes.Buffer for use as a flat-file mirror in tests.
type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

func messages(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestBuffer_NewestFirst(t *testing.T) {
	buf := NewBuffer(BufferConfig{})
	buf.WriteLevel("first", LevelError)
	buf.WriteLevel("second", LevelError)
	buf.WriteLevel("third", LevelError)

	got := messages(buf.Entries())
	want := []string{"third", "second", "first"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuffer_CapNeverExceeded(t *testing.T) {
	const maxLen = 10
	buf := NewBuffer(BufferConfig{MaxLen: maxLen})

	for i := 0; i < 100; i++ {
		buf.WriteLevel(fmt.Sprintf("msg %d", i), LevelError)
		if got := buf.Len(); got > maxLen {
			t.Fatalf("Len() = %d after %d appends, want <= %d", got, i+1, maxLen)
		}
	}

	// Oldest entries were evicted: only the last maxLen remain.
	got := messages(buf.Entries())
	if got[0] != "msg 99" {
		t.Errorf("Entries()[0] = %q, want %q", got[0], "msg 99")
	}
	if got[maxLen-1] != "msg 90" {
		t.Errorf("Entries()[%d] = %q, want %q", maxLen-1, got[maxLen-1], "msg 90")
	}
}

func TestBuffer_Unbounded(t *testing.T) {
	buf := NewBuffer(BufferConfig{MaxLen: -1})
	for i := 0; i < DefaultMaxLen*2; i++ {
		buf.WriteLevel(fmt.Sprintf("msg %d", i), LevelError)
	}
	if got := buf.Len(); got != DefaultMaxLen*2 {
		t.Errorf("Len() = %d, want %d", got, DefaultMaxLen*2)
	}
}

func TestBuffer_BlankMessagesIgnored(t *testing.T) {
	buf := NewBuffer(BufferConfig{})

	for _, msg := range []string{"", " ", "\t", "\n", "   \t\n "} {
		buf.Write(msg)
		buf.WriteLevel(msg, LevelError)
	}

	if got := buf.Len(); got != 0 {
		t.Errorf("Len() = %d after blank writes, want 0", got)
	}
}

func TestBuffer_FilteredViewIsProjection(t *testing.T) {
	buf := NewBuffer(BufferConfig{FilterLevel: LevelWarning})
	buf.WriteLevel("e1", LevelError)
	buf.WriteLevel("d1", LevelDebug)
	buf.WriteLevel("w1", LevelWarning)
	buf.WriteLevel("i1", LevelInfo)
	buf.Write("c1")

	assertProjection := func(t *testing.T) {
		t.Helper()
		threshold := buf.FilterLevel()
		var want []string
		for _, e := range buf.Entries() {
			if e.MatchesFilter(threshold) {
				want = append(want, e.Message)
			}
		}
		got := messages(buf.Filtered())
		if len(got) != len(want) {
			t.Fatalf("Filtered() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Filtered()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	}

	assertProjection(t)

	for _, level := range FilterLevels() {
		buf.SetFilter(level)
		assertProjection(t)
	}

	buf.SetPaused(true)
	buf.WriteLevel("e2", LevelError)
	buf.SetPaused(false)
	assertProjection(t)
}

func TestBuffer_FilterExample(t *testing.T) {
	// append("hello", WARNING) then append("world", ERROR) with
	// threshold=ERROR shows only the error entry.
	buf := NewBuffer(BufferConfig{FilterLevel: LevelError})
	buf.WriteLevel("hello", LevelWarning)
	buf.WriteLevel("world", LevelError)

	got := buf.Filtered()
	if len(got) != 1 {
		t.Fatalf("Filtered() has %d entries, want 1", len(got))
	}
	if got[0].Message != "world" || got[0].Level != LevelError {
		t.Errorf("Filtered()[0] = {%q, %d}, want {%q, %d}", got[0].Message, got[0].Level, "world", LevelError)
	}
}

func TestBuffer_ConsoleOriginUnmaskable(t *testing.T) {
	buf := NewBuffer(BufferConfig{FilterLevel: LevelError})
	buf.Write("console message")
	buf.WriteLevel("debug message", LevelDebug)

	got := messages(buf.Filtered())
	if len(got) != 1 || got[0] != "console message" {
		t.Errorf("Filtered() = %v, want only the console message", got)
	}
}

func TestBuffer_PauseResume(t *testing.T) {
	buf := NewBuffer(BufferConfig{FilterLevel: LevelWarning})
	buf.WriteLevel("before1", LevelError)
	buf.WriteLevel("before2", LevelWarning)

	buf.SetPaused(true)
	if !buf.Paused() {
		t.Fatal("Paused() = false after SetPaused(true)")
	}

	buf.WriteLevel("during1", LevelError)
	buf.WriteLevel("during2", LevelInfo)

	// The display stays frozen while paused.
	if got := buf.Len(); got != 2 {
		t.Errorf("Len() = %d while paused, want 2", got)
	}
	if got := messages(buf.Filtered()); len(got) != 2 {
		t.Errorf("Filtered() = %v while paused, want the pre-pause view", got)
	}

	buf.SetPaused(false)

	// The diverted entries are prepended to the pre-pause buffer.
	got := messages(buf.Entries())
	want := []string{"during2", "during1", "before2", "before1"}
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// The filtered view was recomputed over the merged buffer.
	gotFiltered := messages(buf.Filtered())
	wantFiltered := []string{"during1", "before2", "before1"}
	if len(gotFiltered) != len(wantFiltered) {
		t.Fatalf("Filtered() = %v, want %v", gotFiltered, wantFiltered)
	}
	for i := range wantFiltered {
		if gotFiltered[i] != wantFiltered[i] {
			t.Errorf("Filtered()[%d] = %q, want %q", i, gotFiltered[i], wantFiltered[i])
		}
	}
}

func TestBuffer_PauseBufferRespectsCap(t *testing.T) {
	const maxLen = 5
	buf := NewBuffer(BufferConfig{MaxLen: maxLen})
	for i := 0; i < maxLen; i++ {
		buf.WriteLevel(fmt.Sprintf("before %d", i), LevelError)
	}

	buf.SetPaused(true)
	for i := 0; i < maxLen*2; i++ {
		buf.WriteLevel(fmt.Sprintf("during %d", i), LevelError)
	}
	buf.SetPaused(false)

	if got := buf.Len(); got != maxLen {
		t.Errorf("Len() = %d after resume, want %d", got, maxLen)
	}
	got := messages(buf.Entries())
	if got[0] != "during 9" {
		t.Errorf("Entries()[0] = %q, want %q", got[0], "during 9")
	}
}

func TestBuffer_SetPausedIdempotent(t *testing.T) {
	buf := NewBuffer(BufferConfig{})
	buf.WriteLevel("kept", LevelError)

	buf.SetPaused(true)
	buf.WriteLevel("diverted", LevelError)
	// A repeated pause must not re-snapshot and discard the diverted entry.
	buf.SetPaused(true)
	buf.SetPaused(false)

	got := messages(buf.Entries())
	if len(got) != 2 || got[0] != "diverted" {
		t.Errorf("Entries() = %v, want [diverted kept]", got)
	}

	// Resuming while not paused is a no-op.
	buf.SetPaused(false)
	if got := buf.Len(); got != 2 {
		t.Errorf("Len() = %d after redundant resume, want 2", got)
	}
}

func TestBuffer_Clear(t *testing.T) {
	buf := NewBuffer(BufferConfig{})
	buf.WriteLevel("one", LevelError)
	buf.SetPaused(true)
	buf.WriteLevel("two", LevelError)

	buf.Clear()
	buf.SetPaused(false)

	if got := buf.Len(); got != 0 {
		t.Errorf("Len() = %d after Clear(), want 0", got)
	}
	if got := buf.Filtered(); len(got) != 0 {
		t.Errorf("Filtered() has %d entries after Clear(), want 0", len(got))
	}
}

func TestBuffer_LogFileMirror(t *testing.T) {
	var mirror bytes.Buffer
	buf := NewBuffer(BufferConfig{LogFile: nopWriteCloser{&mirror}})

	buf.WriteLevel("visible", LevelError)
	buf.SetPaused(true)
	buf.WriteLevel("diverted", LevelInfo)
	buf.Write("")

	lines := strings.Split(strings.TrimRight(mirror.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("mirror has %d lines, want 2", len(lines))
	}
	// timestamp,level,message
	if !strings.HasSuffix(lines[0], ",3,visible") {
		t.Errorf("mirror line = %q, want suffix %q", lines[0], ",3,visible")
	}
	// Diverted entries still reach the file.
	if !strings.HasSuffix(lines[1], ",6,diverted") {
		t.Errorf("mirror line = %q, want suffix %q", lines[1], ",6,diverted")
	}
}

func TestBuffer_Rows(t *testing.T) {
	buf := NewBuffer(BufferConfig{FilterLevel: LevelDebug})
	buf.WriteLevel("up", LevelInfo)

	rows := buf.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() has %d rows, want 1", len(rows))
	}
	if rows[0].Level != "INFO" || rows[0].Message != "up" {
		t.Errorf("Rows()[0] = %+v, want level INFO message up", rows[0])
	}
}
