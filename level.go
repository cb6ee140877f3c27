package rotolog

import (
	"fmt"
	"strings"
)

// Level identifies the severity of a log message. Levels are ordered from
// least to most severe; a Logger writes messages at or above its threshold.
type Level int

const (
	LevelSpam Level = iota
	LevelDebug
	LevelVerbose
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the lowercase level name used in configuration.
func (l Level) String() string {
	switch l {
	case LevelSpam:
		return "spam"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// letter returns the single-letter tag written in file lines.
func (l Level) letter() byte {
	switch l {
	case LevelSpam:
		return 'S'
	case LevelDebug:
		return 'D'
	case LevelVerbose:
		return 'V'
	case LevelInfo:
		return 'I'
	case LevelWarning:
		return 'W'
	case LevelError:
		return 'E'
	default:
		return '?'
	}
}

// tag returns the uppercase level tag used in console lines.
func (l Level) tag() string {
	return strings.ToUpper(l.String())
}

const colorReset = "\033[0m"

// color returns the ANSI sequence applied to the console tag when color
// output is enabled.
func (l Level) color() string {
	switch l {
	case LevelSpam:
		return "\033[90m"
	case LevelDebug:
		return "\033[36m"
	case LevelVerbose:
		return "\033[34m"
	case LevelInfo:
		return "\033[32m"
	case LevelWarning:
		return "\033[33m"
	case LevelError:
		return "\033[31m"
	default:
		return ""
	}
}

// ParseLevel converts a level name into its Level value. Matching is
// case-insensitive and "warn" is accepted as an alias of "warning".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spam":
		return LevelSpam, nil
	case "debug":
		return LevelDebug, nil
	case "verbose":
		return LevelVerbose, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unknown level %q", ErrInvalidConfiguration, s)
	}
}
