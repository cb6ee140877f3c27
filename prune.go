package rotolog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Prune applies the archive retention policy immediately: files matching
// <base>_*<ext> next to the configured log file are sorted by name (the
// timestamp suffix makes lexicographic order chronological) and the oldest
// excess beyond MaxFiles is deleted. Individual deletion failures are
// collected but do not stop the sweep. Rotation invokes this asynchronously
// after every successful rotation.
func (l *Logger) Prune() error {
	return l.prune()
}

func (l *Logger) prune() error {
	l.mu.Lock()
	path := l.cfg.Filename
	keep := l.cfg.MaxFiles
	l.mu.Unlock()

	if path == "" || !fsSupported {
		return nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "_"

	entries, err := l.readDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPruneDelete, err)
	}

	var archives []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		archives = append(archives, name)
	}
	if int64(len(archives)) <= keep {
		return nil
	}

	sort.Strings(archives)

	var errs []error
	for _, name := range archives[:len(archives)-int(keep)] {
		if err := l.remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrPruneDelete, name, err))
		}
	}
	return errors.Join(errs...)
}
