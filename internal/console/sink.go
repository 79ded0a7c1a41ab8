// pattern: Imperative Shell

package console

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sink implements zapcore.WriteSyncer and routes the program's own log
// output into a Buffer. It stands in for the stdout/stderr redirection the
// desktop console performs: entries land at the unmaskable console-origin
// level unless the record carries an explicit device severity in its "lvl"
// field.
type Sink struct {
	buffer *Buffer
}

// NewSink creates a sink feeding the given buffer.
func NewSink(buffer *Buffer) *Sink {
	return &Sink{buffer: buffer}
}

// Write implements io.Writer. It parses the JSON log line from Zap and
// appends a matching entry to the buffer. Lines that fail to parse are
// appended verbatim so no output is ever lost.
func (s *Sink) Write(p []byte) (int, error) {
	message, level, err := parseZapLine(p)
	if err != nil {
		s.buffer.Write(strings.TrimRight(string(p), "\n"))
		return len(p), nil
	}
	s.buffer.WriteLevel(message, level)
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer. No-op for the buffer sink.
func (s *Sink) Sync() error {
	return nil
}

// parseZapLine extracts the display message and severity from a JSON log
// line. The message is rebuilt as "scope: msg key=value ..." so the table
// shows the same detail the log file does.
func parseZapLine(data []byte) (string, int, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", 0, err
	}

	msg, _ := raw["msg"].(string)
	delete(raw, "msg")

	level := LevelConsole
	if lvl, ok := raw["lvl"].(float64); ok {
		level = int(lvl)
		delete(raw, "lvl")
	}

	var sb strings.Builder
	if logger, ok := raw["logger"].(string); ok {
		sb.WriteString(logger)
		sb.WriteString(": ")
		delete(raw, "logger")
	}
	sb.WriteString(msg)

	delete(raw, "level")
	delete(raw, "ts")
	delete(raw, "caller")
	delete(raw, "stacktrace")

	for k, v := range raw {
		fmt.Fprintf(&sb, " %s=%v", k, v)
	}

	return sb.String(), level, nil
}
