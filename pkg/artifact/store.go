// pkg/artifact/store.go

// Package artifact materializes rendered bills on disk for delivery and
// reclaims them after a delay.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store owns the files it writes until they are reclaimed.
type Store struct {
	dir    string
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewStore creates dir if needed and returns a Store that removes each
// released file after delay.
func NewStore(dir string, delay time.Duration, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{
		dir:     dir,
		delay:   delay,
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Dir returns the directory artifacts are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes data under name and returns the file path. Reclamation is
// scheduled immediately so a delivery that never finishes still frees the
// file; Release reschedules it from the moment delivery ends.
func (s *Store) Put(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	s.schedule(path)
	return path, nil
}

// Release marks path as delivered. The file is removed after the
// configured delay to tolerate slow clients.
func (s *Store) Release(path string) {
	s.schedule(path)
}

func (s *Store) schedule(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[path]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.pending[path] != t {
			// rescheduled or closed meanwhile
			s.mu.Unlock()
			return
		}
		delete(s.pending, path)
		s.mu.Unlock()
		s.remove(path)
	})
	s.pending[path] = t
}

func (s *Store) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("artifact cleanup failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.logger.Debug("artifact removed", zap.String("path", path))
}

// Pending reports how many files are waiting to be reclaimed.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Sweep removes files matching pattern that are older than maxAge, left
// over from a previous process.
func (s *Store) Sweep(pattern string, maxAge time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, pattern))
	if err != nil {
		return 0, fmt.Errorf("sweep artifacts: %w", err)
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Close removes every pending file right away.
func (s *Store) Close() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.pending))
	for path, t := range s.pending {
		t.Stop()
		paths = append(paths, path)
	}
	s.pending = make(map[string]*time.Timer)
	s.mu.Unlock()

	for _, path := range paths {
		s.remove(path)
	}
}
