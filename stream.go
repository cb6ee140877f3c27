package rotolog

import (
	"fmt"
	"os"
	"runtime"
)

// fsSupported reports whether the runtime can back the logger with a file.
// On platforms without a usable filesystem every file operation silently
// succeeds and the console remains the only sink.
var fsSupported = runtime.GOOS != "js" && runtime.GOOS != "wasip1"

// defaultOpenFile opens the log file in append mode so external readers see
// a monotonically growing file.
func defaultOpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// openStream acquires a handle at path and reports the current file size so
// the byte counter resumes correctly on an existing file.
func (l *Logger) openStream(path string) (*os.File, int64, error) {
	f, err := l.openFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrStreamOpen, err)
	}
	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	return f, size, nil
}

// closeStream releases a handle. The handle is unusable afterwards even when
// an error is reported.
func closeStream(f *os.File) error {
	if f == nil {
		return nil
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStreamClose, err)
	}
	return nil
}

// fileBacked reports whether this logger writes to a file at all. A logger
// without a filename, or on a platform without a filesystem, runs
// console-only and treats every file operation as a successful no-op.
func (l *Logger) fileBacked() bool {
	return l.cfg.Filename != "" && fsSupported
}
