package rotolog

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// breakStream closes the handle out from under the logger so the next file
// write fails the way a revoked descriptor would.
func breakStream(t *testing.T, l *Logger) {
	t.Helper()
	l.mu.Lock()
	require.NotNil(t, l.file)
	require.NoError(t, l.file.Close())
	l.mu.Unlock()
}

func hasHandle(l *Logger) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file != nil
}

func TestWriteFailureReopensStream(t *testing.T) {
	l, path, _, _ := newTestLogger(t, func(cfg *Config) { cfg.Console = false })

	l.Info("before failure")
	breakStream(t, l)

	l.Info("lost to the failure")
	require.Eventually(t, func() bool {
		return hasHandle(l)
	}, 2*time.Second, 5*time.Millisecond)
	waitSettled(t, l)

	l.Info("after recovery")
	content := readFile(t, path)
	assert.Contains(t, content, "before failure")
	assert.Contains(t, content, "after recovery")
	assert.NotContains(t, content, "lost to the failure")
}

func TestReopenRetriesUntilPathRecovers(t *testing.T) {
	l, path, _, _ := newTestLogger(t, func(cfg *Config) { cfg.Console = false })

	var failing atomic.Bool
	failing.Store(true)
	l.mu.Lock()
	l.openFile = func(name string) (*os.File, error) {
		if failing.Load() {
			return nil, os.ErrPermission
		}
		return defaultOpenFile(name)
	}
	l.mu.Unlock()

	breakStream(t, l)
	l.Info("trigger")

	// The first few attempts fail; the loop must survive them.
	time.Sleep(5 * l.retryDelay)
	assert.False(t, hasHandle(l))
	assert.True(t, l.retryPending.Load())

	failing.Store(false)
	require.Eventually(t, func() bool {
		return hasHandle(l)
	}, 2*time.Second, 5*time.Millisecond)
	waitSettled(t, l)

	l.Info("back in business")
	assert.Contains(t, readFile(t, path), "back in business")
}

func TestCloseCancelsRetry(t *testing.T) {
	l, _, _, _ := newTestLogger(t, func(cfg *Config) { cfg.Console = false })
	l.retryDelay = 50 * time.Millisecond

	l.mu.Lock()
	l.openFile = func(string) (*os.File, error) {
		return nil, os.ErrPermission
	}
	l.mu.Unlock()

	breakStream(t, l)
	l.Info("trigger")
	require.True(t, l.retryPending.Load())

	require.NoError(t, l.Close())
	require.Eventually(t, func() bool {
		return !l.retryPending.Load()
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, hasHandle(l))
}

func TestStreamFailureWhileClosedIsAbsorbed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Console = false

	l, err := New(cfg)
	require.NoError(t, err)

	l.streamFailed()
	assert.False(t, l.retryPending.Load())
	assert.False(t, hasHandle(l))
}

func TestLoggingDuringOutageIsSilent(t *testing.T) {
	l, _, stdout, stderr := newTestLogger(t, nil)

	l.mu.Lock()
	l.openFile = func(string) (*os.File, error) {
		return nil, os.ErrPermission
	}
	l.mu.Unlock()

	breakStream(t, l)
	l.Info("first casualty")
	stdout.Reset()
	stderr.Reset()

	// The console sink keeps working while the file stream is down.
	l.Info("console survives")
	assert.Equal(t, "[INFO] console survives\n", stdout.String())

	l.mu.Lock()
	l.openFile = defaultOpenFile
	l.mu.Unlock()
	require.Eventually(t, func() bool {
		return hasHandle(l)
	}, 2*time.Second, 5*time.Millisecond)
	waitSettled(t, l)
}
