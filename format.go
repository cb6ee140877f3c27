package rotolog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Time layouts for the three places a timestamp appears.
const (
	fileTimeFormat    = "2006-01-02T15:04:05Z" // file lines, UTC, no milliseconds
	consoleTimeFormat = "2006-01-02 15:04:05"  // console prefix
	archiveTimeFormat = "2006-01-02_15-04-05"  // archive names, filesystem-safe
)

// fileLine renders the line appended to the log file:
// [<letter>:<timestamp>] (<module>) <message>\n
func fileLine(level Level, ts time.Time, module, msg string) string {
	var b strings.Builder
	b.Grow(32 + len(module) + len(msg))
	b.WriteByte('[')
	b.WriteByte(level.letter())
	b.WriteByte(':')
	b.WriteString(ts.UTC().Format(fileTimeFormat))
	b.WriteString("] ")
	if module != "" {
		b.WriteByte('(')
		b.WriteString(module)
		b.WriteString(") ")
	}
	b.WriteString(msg)
	b.WriteByte('\n')
	return b.String()
}

// consoleLine renders the console form of a message: optional timestamp
// prefix, level tag, optional module tag, message.
func consoleLine(level Level, ts time.Time, module, msg string, timestamps, colors bool) string {
	var b strings.Builder
	b.Grow(48 + len(module) + len(msg))
	if timestamps {
		b.WriteString(ts.Format(consoleTimeFormat))
		b.WriteByte(' ')
	}
	if colors {
		b.WriteString(level.color())
	}
	b.WriteByte('[')
	b.WriteString(level.tag())
	b.WriteByte(']')
	if colors {
		b.WriteString(colorReset)
	}
	b.WriteByte(' ')
	if module != "" {
		b.WriteByte('(')
		b.WriteString(module)
		b.WriteString(") ")
	}
	b.WriteString(msg)
	b.WriteByte('\n')
	return b.String()
}

// archiveName derives the rotation target for path at the given instant:
// <dir>/<base>_<timestamp><ext> with millisecond precision and no characters
// that are unsafe in file names.
func archiveName(path string, ts time.Time) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	stamp := fmt.Sprintf("%s-%03d", ts.Format(archiveTimeFormat), ts.Nanosecond()/int(time.Millisecond))
	return filepath.Join(dir, base+"_"+stamp+ext)
}

// stringify renders one log argument, preferring the value's own string
// forms over reflection-based formatting.
func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%+v", v)
	}
}

// MemorySnapshot returns a one-line summary of current process memory usage:
// heap in use, total obtained from the OS, completed GC cycles, and live
// goroutines.
func MemorySnapshot() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("heap %s, sys %s, gc cycles %d, goroutines %d",
		byteSize(m.HeapAlloc), byteSize(m.Sys), m.NumGC, runtime.NumGoroutine())
}

// byteSize formats a byte count with a binary unit suffix.
func byteSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
