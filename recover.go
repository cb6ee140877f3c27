package rotolog

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v5"
)

// defaultRetryDelay is the fixed interval between reopen attempts after a
// stream failure.
const defaultRetryDelay = 10 * time.Second

// streamFailed tears down a broken handle and schedules a reopen attempt.
// At most one retry loop runs per Logger; stream errors observed while a
// retry is already pending are absorbed.
func (l *Logger) streamFailed() {
	if !l.retryPending.CompareAndSwap(false, true) {
		return
	}

	l.mu.Lock()
	if f := l.file; f != nil {
		l.file = nil
		_ = closeStream(f)
	}
	l.currentSize = 0
	if !l.isOpen {
		l.mu.Unlock()
		l.retryPending.Store(false)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.retryCancel = cancel
	l.mu.Unlock()

	go l.retryReopen(ctx)
}

// retryReopen attempts to restore the file stream every retryDelay until it
// succeeds or the Logger is closed. The first attempt also waits out the
// delay so a transient fault has time to clear.
func (l *Logger) retryReopen(ctx context.Context) {
	defer l.retryPending.Store(false)

	t := time.NewTimer(l.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}

	_ = retry.New(
		retry.Context(ctx),
		retry.UntilSucceeded(),
		retry.Delay(l.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(l.reopen)

	l.mu.Lock()
	if l.retryCancel != nil {
		l.retryCancel()
		l.retryCancel = nil
	}
	l.mu.Unlock()
}

// reopen restores the stream at the configured path. A Logger closed while
// the retry loop slept reports success so the loop stops.
func (l *Logger) reopen() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isOpen || !l.fileBacked() || l.file != nil {
		return nil
	}
	f, size, err := l.openStream(l.cfg.Filename)
	if err != nil {
		return err
	}
	l.file = f
	l.currentSize = size
	return nil
}
