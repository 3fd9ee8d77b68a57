package logx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// Format selects the output encoding.
type Format string

const (
	// FormatConsole writes human-readable lines (default).
	FormatConsole Format = "console"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// Fields is an ordered-on-output set of structured log fields.
type Fields map[string]interface{}

// Logger is a leveled structured logger.
type Logger struct {
	mu       sync.Mutex
	level    Level
	format   Format
	writer   io.Writer
	exitFunc func(int)
}

// NewLogger creates a logger writing to w in the given format.
func NewLogger(level Level, format Format, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{
		level:    level,
		format:   format,
		writer:   w,
		exitFunc: os.Exit,
	}
}

// SetLevel changes the minimum level that produces output.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects the logger output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || l.level == LevelOff {
		return
	}

	ts := time.Now().Format(time.RFC3339)

	switch l.format {
	case FormatJSON:
		entry := map[string]interface{}{
			"time":    ts,
			"level":   level.String(),
			"message": msg,
		}
		for k, v := range fields {
			entry[k] = v
		}
		b, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.writer, `{"time":%q,"level":"ERROR","message":"logx: marshal failure"}`+"\n", ts)
			break
		}
		l.writer.Write(append(b, '\n'))
	default:
		fmt.Fprintf(l.writer, "%s [%s] %s%s\n", ts, level.String(), msg, formatFields(fields))
	}

	if level == LevelFatal {
		l.exitFunc(1)
	}
}

func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := " |"
	for _, k := range keys {
		out += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	return out
}

// Entry is a logger with fields pre-attached.
type Entry struct {
	logger *Logger
	fields Fields
}

// WithFields returns an entry carrying the given fields.
func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{logger: l, fields: fields}
}

// Debug logs at debug level.
func (e *Entry) Debug(msg string) { e.logger.log(LevelDebug, msg, e.fields) }

// Info logs at info level.
func (e *Entry) Info(msg string) { e.logger.log(LevelInfo, msg, e.fields) }

// Warn logs at warn level.
func (e *Entry) Warn(msg string) { e.logger.log(LevelWarn, msg, e.fields) }

// Error logs at error level.
func (e *Entry) Error(msg string) { e.logger.log(LevelError, msg, e.fields) }

// Debugf logs a formatted message at debug level.
func (e *Entry) Debugf(format string, args ...interface{}) {
	e.logger.log(LevelDebug, fmt.Sprintf(format, args...), e.fields)
}

// Infof logs a formatted message at info level.
func (e *Entry) Infof(format string, args ...interface{}) {
	e.logger.log(LevelInfo, fmt.Sprintf(format, args...), e.fields)
}

// Warnf logs a formatted message at warn level.
func (e *Entry) Warnf(format string, args ...interface{}) {
	e.logger.log(LevelWarn, fmt.Sprintf(format, args...), e.fields)
}

// Errorf logs a formatted message at error level.
func (e *Entry) Errorf(format string, args ...interface{}) {
	e.logger.log(LevelError, fmt.Sprintf(format, args...), e.fields)
}
