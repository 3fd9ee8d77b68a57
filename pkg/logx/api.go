package logx

import (
	"fmt"
	"io"
	"os"
)

var defaultLogger *Logger

func init() {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	format := FormatConsole
	if os.Getenv("LOG_FORMAT") == string(FormatJSON) {
		format = FormatJSON
	}
	defaultLogger = NewLogger(level, format, os.Stdout)
}

// SetDefaultLogger replaces the package-level logger.
func SetDefaultLogger(l *Logger) {
	defaultLogger = l
}

// SetLevel sets the level of the package-level logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput redirects the package-level logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// WithFields returns an entry on the package-level logger.
func WithFields(fields Fields) *Entry {
	return defaultLogger.WithFields(fields)
}

// Debug logs at debug level.
func Debug(msg string) { defaultLogger.log(LevelDebug, msg, nil) }

// Info logs at info level.
func Info(msg string) { defaultLogger.log(LevelInfo, msg, nil) }

// Warn logs at warn level.
func Warn(msg string) { defaultLogger.log(LevelWarn, msg, nil) }

// Error logs at error level.
func Error(msg string) { defaultLogger.log(LevelError, msg, nil) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	defaultLogger.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	defaultLogger.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	defaultLogger.log(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	defaultLogger.log(LevelError, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(format string, args ...interface{}) {
	defaultLogger.log(LevelFatal, fmt.Sprintf(format, args...), nil)
}
