package logx

import "strings"

// Level is a logging severity level.
type Level uint8

const (
	// LevelDebug for debugging detail.
	LevelDebug Level = iota
	// LevelInfo for informational messages.
	LevelInfo
	// LevelWarn for warnings.
	LevelWarn
	// LevelError for errors.
	LevelError
	// LevelFatal for fatal messages; logging at this level exits the process.
	LevelFatal
	// LevelOff disables all logging.
	LevelOff
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "FATAL":
		return LevelFatal
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}
