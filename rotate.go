package rotolog

import (
	"fmt"
)

// Rotate archives the active log file and starts a fresh one. It returns the
// archive path, or an empty string when no rotation was performed: a
// rotation already in flight, a console-only logger, and a closed logger are
// all idempotent no-ops. A rename failure is reported as ErrRotateRename but
// a fresh file is still opened.
func (l *Logger) Rotate() (string, error) {
	return l.rotate()
}

// rotate runs the rotation protocol: enter the rotating state, close the
// active handle, rename it to the archive name, reopen at the original path,
// drain the lines buffered meanwhile, leave the rotating state, then prune
// asynchronously.
func (l *Logger) rotate() (string, error) {
	if !l.rotating.CompareAndSwap(false, true) {
		return "", nil
	}

	l.mu.Lock()
	if !l.isOpen || !l.fileBacked() || l.file == nil {
		// A log call that observed the rotating flag before this lock was
		// taken may have queued lines already. With no live handle to
		// replay them into they are accounted as dropped, never left to go
		// stale in the buffer.
		if n := len(l.pending); n > 0 {
			l.dropped.Add(uint64(n))
			l.pending = nil
		}
		l.rotating.Store(false)
		l.mu.Unlock()
		return "", nil
	}
	f := l.file
	l.file = nil
	l.currentSize = 0
	path := l.cfg.Filename
	l.mu.Unlock()

	// The goal is a fresh file; a failed close must not stop the rename.
	_ = closeStream(f)

	archive := archiveName(path, l.now())
	var renameErr error
	if err := l.rename(path, archive); err != nil {
		archive = ""
		renameErr = fmt.Errorf("%w: %v", ErrRotateRename, err)
	}

	nf, size, openErr := l.openStream(path)

	l.mu.Lock()
	var over bool
	if openErr == nil {
		l.file = nf
		l.currentSize = size
		l.drainLocked()
		if l.isOpen {
			over = l.cfg.MaxFileSize > 0 && l.currentSize > l.cfg.MaxFileSize
		} else {
			// Closed mid-rotation: the queued lines are flushed above but
			// the fresh handle is not kept.
			nf = l.file
			l.file = nil
			l.currentSize = 0
			_ = closeStream(nf)
		}
	} else {
		l.dropped.Add(uint64(len(l.pending)))
		l.pending = nil
	}
	stillOpen := l.isOpen
	l.rotating.Store(false)
	l.mu.Unlock()

	// Retention failures never reach a log-call caller, but they are not
	// swallowed either; best effort, like the console sink itself.
	go func() {
		if err := l.prune(); err != nil {
			l.mu.Lock()
			fmt.Fprintln(l.stderr, err)
			l.mu.Unlock()
		}
	}()

	if openErr != nil && stillOpen {
		l.streamFailed()
	}
	if over {
		go l.rotate()
	}
	return archive, renameErr
}

// drainLocked replays lines buffered during rotation in FIFO order, updating
// the byte counter exactly as the direct write path would. If lines were
// dropped since the last drain, a catch-up record follows them. The caller
// holds mu and has installed a fresh handle.
func (l *Logger) drainLocked() {
	for i, line := range l.pending {
		n, err := l.file.WriteString(line)
		if err != nil {
			l.dropped.Add(uint64(len(l.pending) - i))
			break
		}
		l.currentSize += int64(n)
	}
	l.pending = nil

	if d := l.dropped.Load(); d > l.loggedDrops.Load() {
		l.loggedDrops.Store(d)
		note := fileLine(LevelError, l.now(), "",
			fmt.Sprintf("log lines dropped, total_dropped %d", d))
		if n, err := l.file.WriteString(note); err == nil {
			l.currentSize += int64(n)
		}
	}
}
