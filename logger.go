package rotolog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

// maxPendingLines bounds the buffer that absorbs writes while a rotation is
// in flight. Lines past the bound are dropped (newest first) and counted.
const maxPendingLines = 1024

// Logger writes leveled, timestamped messages to a console stream and/or a
// size-bounded, auto-rotating log file. All mutations of stream state are
// serialized through a single mutex; log calls never block on rotation.
type Logger struct {
	mu sync.Mutex

	cfg   Config
	level atomic.Int64

	// Color gating is per sink: stdout and stderr may differ in
	// terminal-ness, for example when one of them is redirected.
	stdoutColors bool
	stderrColors bool

	isOpen   bool
	rotating atomic.Bool

	file        *os.File
	currentSize int64

	pending     []string
	dropped     atomic.Uint64
	loggedDrops atomic.Uint64

	contexts map[string]*Context

	retryPending atomic.Bool
	retryCancel  func()
	retryDelay   time.Duration

	stdout io.Writer
	stderr io.Writer

	// Injectable filesystem and clock, replaced only in tests.
	openFile func(string) (*os.File, error)
	rename   func(oldPath, newPath string) error
	remove   func(string) error
	readDir  func(string) ([]os.DirEntry, error)
	now      func() time.Time
}

// New validates cfg and returns a Logger in the closed state. Call Open
// before logging. A Logger with an empty Filename, or on a platform without
// a filesystem, runs console-only.
func New(cfg Config) (*Logger, error) {
	level, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	l := &Logger{
		cfg:          cfg,
		stdoutColors: cfg.Colors && term.IsTerminal(int(os.Stdout.Fd())),
		stderrColors: cfg.Colors && term.IsTerminal(int(os.Stderr.Fd())),
		retryDelay:   defaultRetryDelay,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		openFile:     defaultOpenFile,
		rename:       os.Rename,
		remove:       os.Remove,
		readDir:      os.ReadDir,
		now:          time.Now,
	}
	l.level.Store(int64(level))
	return l, nil
}

// Open transitions the logger to the open state, acquiring a file handle if
// a path is configured. Opening an already open logger is a no-op.
func (l *Logger) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.isOpen {
		return nil
	}
	if l.fileBacked() {
		f, size, err := l.openStream(l.cfg.Filename)
		if err != nil {
			return err
		}
		l.file = f
		l.currentSize = size
	}
	l.isOpen = true
	return nil
}

// Close releases the file handle and cancels any pending reopen retry. A
// rotation already in flight is allowed to finish; lines queued during it
// are still drained into the fresh file before its handle is released.
// The logger may be reopened afterwards.
func (l *Logger) Close() error {
	l.mu.Lock()
	if !l.isOpen {
		l.mu.Unlock()
		return nil
	}
	l.isOpen = false
	if l.retryCancel != nil {
		l.retryCancel()
		l.retryCancel = nil
	}
	f := l.file
	l.file = nil
	l.currentSize = 0
	l.mu.Unlock()

	return closeStream(f)
}

// SetLevel changes the minimum severity written by the logger.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int64(level))
}

// SetLevelName changes the minimum severity by name, failing with
// ErrInvalidConfiguration on an unknown name.
func (l *Logger) SetLevelName(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.SetLevel(level)
	return nil
}

// Level returns the current minimum severity.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetFilename changes the log file path. Changing the path while the logger
// is open is an ErrInvalidState error; close first.
func (l *Logger) SetFilename(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.isOpen || l.rotating.Load() {
		return ErrInvalidState
	}
	l.cfg.Filename = path
	return nil
}

// Dropped reports the number of log lines discarded because the rotation
// buffer overflowed or a post-rotation drain failed.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Spam logs a message at spam level.
func (l *Logger) Spam(args ...any) { l.log(LevelSpam, "", newPayload(args...)) }

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) { l.log(LevelDebug, "", newPayload(args...)) }

// Verbose logs a message at verbose level.
func (l *Logger) Verbose(args ...any) { l.log(LevelVerbose, "", newPayload(args...)) }

// Info logs a message at info level.
func (l *Logger) Info(args ...any) { l.log(LevelInfo, "", newPayload(args...)) }

// Warning logs a message at warning level.
func (l *Logger) Warning(args ...any) { l.log(LevelWarning, "", newPayload(args...)) }

// Error logs a message at error level.
func (l *Logger) Error(args ...any) { l.log(LevelError, "", newPayload(args...)) }

// Log writes a tagged payload at the given level.
func (l *Logger) Log(level Level, p Payload) { l.log(level, "", p) }

// LogMemoryUsage writes a memory usage snapshot at verbose level.
func (l *Logger) LogMemoryUsage() { l.Verbose(MemorySnapshot()) }

// log renders one message for the configured sinks. File-side failures never
// surface here: a broken stream is handed to the recovery supervisor and the
// call returns. Rotation is triggered fire-and-forget once the byte counter
// crosses the threshold.
func (l *Logger) log(level Level, module string, p Payload) {
	if level < Level(l.level.Load()) {
		return
	}
	ts := l.now()
	msg := p.message()

	l.mu.Lock()
	if !l.isOpen {
		l.mu.Unlock()
		return
	}
	if l.cfg.Console {
		sink, colored := l.consoleSink(level)
		io.WriteString(sink, consoleLine(level, ts, module, msg, l.cfg.Timestamps, colored))
	}

	line := fileLine(level, ts, module, msg)
	var trigger bool
	switch {
	case l.rotating.Load():
		if len(l.pending) < maxPendingLines {
			l.pending = append(l.pending, line)
		} else {
			l.dropped.Add(1)
		}
	case l.file != nil:
		n, err := l.file.WriteString(line)
		if err != nil {
			l.mu.Unlock()
			l.streamFailed()
			return
		}
		l.currentSize += int64(n)
		trigger = l.cfg.MaxFileSize > 0 && l.currentSize > l.cfg.MaxFileSize
	}
	l.mu.Unlock()

	if trigger {
		go l.rotate()
	}
}

// consoleSink routes warnings and errors to stderr, everything else to
// stdout, together with the color setting of the chosen stream.
func (l *Logger) consoleSink(level Level) (io.Writer, bool) {
	if level >= LevelWarning {
		return l.stderr, l.stderrColors
	}
	return l.stdout, l.stdoutColors
}
