package rotolog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedArchives creates n archive files next to path, one second apart, and
// returns their full paths oldest first.
func seedArchives(t *testing.T, path string, n int) []string {
	t.Helper()
	var paths []string
	for i := 0; i < n; i++ {
		name := archiveName(path, formatTestTime.Add(time.Duration(i)*time.Second))
		require.NoError(t, os.WriteFile(name, []byte("archived\n"), 0644))
		paths = append(paths, name)
	}
	return paths
}

func TestPruneKeepsNewest(t *testing.T) {
	l, path := newRotationLogger(t, func(cfg *Config) { cfg.MaxFiles = 2 })
	archives := seedArchives(t, path, 4)

	require.NoError(t, l.Prune())

	assert.NoFileExists(t, archives[0])
	assert.NoFileExists(t, archives[1])
	assert.FileExists(t, archives[2])
	assert.FileExists(t, archives[3])
	assert.FileExists(t, path, "the live file is never pruned")
}

func TestPruneUnderLimit(t *testing.T) {
	l, path := newRotationLogger(t, func(cfg *Config) { cfg.MaxFiles = 5 })
	archives := seedArchives(t, path, 3)

	require.NoError(t, l.Prune())
	for _, name := range archives {
		assert.FileExists(t, name)
	}
}

func TestPruneZeroRetainsNothing(t *testing.T) {
	l, path := newRotationLogger(t, func(cfg *Config) { cfg.MaxFiles = 0 })
	archives := seedArchives(t, path, 3)

	require.NoError(t, l.Prune())
	for _, name := range archives {
		assert.NoFileExists(t, name)
	}
	assert.FileExists(t, path)
}

func TestPruneIgnoresUnrelatedFiles(t *testing.T) {
	l, path := newRotationLogger(t, func(cfg *Config) { cfg.MaxFiles = 0 })

	dir := filepath.Dir(path)
	bystanders := []string{
		filepath.Join(dir, "other.log"),
		filepath.Join(dir, "app_notes.txt"),
	}
	for _, name := range bystanders {
		require.NoError(t, os.WriteFile(name, []byte("keep\n"), 0644))
	}
	seedArchives(t, path, 1)

	require.NoError(t, l.Prune())
	for _, name := range bystanders {
		assert.FileExists(t, name)
	}
}

func TestPruneContinuesPastDeleteFailure(t *testing.T) {
	l, path := newRotationLogger(t, func(cfg *Config) { cfg.MaxFiles = 0 })
	archives := seedArchives(t, path, 3)

	stuck := archives[1]
	l.remove = func(name string) error {
		if name == stuck {
			return os.ErrPermission
		}
		return os.Remove(name)
	}

	err := l.Prune()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPruneDelete)

	assert.NoFileExists(t, archives[0])
	assert.FileExists(t, stuck)
	assert.NoFileExists(t, archives[2])
}

func TestRotationReportsPruneFailures(t *testing.T) {
	l, path, _, stderr := newTestLogger(t, func(cfg *Config) {
		cfg.Console = false
		cfg.MaxFiles = 0
	})
	l.now = (&fakeClock{t: formatTestTime}).Now
	seedArchives(t, path, 1)
	l.remove = func(string) error { return os.ErrPermission }

	l.Info("line")
	_, err := l.Rotate()
	require.NoError(t, err)

	// The sweep runs asynchronously; its failure surfaces on stderr, never
	// on the Rotate caller.
	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return strings.Contains(stderr.String(), "cannot delete archived log file")
	}, 2*time.Second, 5*time.Millisecond)
	waitSettled(t, l)
}

func TestPruneRunsAfterRotation(t *testing.T) {
	l, path := newRotationLogger(t, func(cfg *Config) { cfg.MaxFiles = 2 })
	seedArchives(t, path, 5)

	l.Info("line")
	_, err := l.Rotate()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(listArchives(t, path)) == 2
	}, 2*time.Second, 5*time.Millisecond)
	waitSettled(t, l)
}
