package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps one JSON blob per key under a cache directory. Staleness
// is decided from the file's modification time at read, against wall-clock
// now. Storage faults degrade to cache-miss semantics and are logged; they
// never fail a request.
type FileStore struct {
	dir    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string, ttl time.Duration, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, ttl: ttl, logger: logger}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(key string) ([]byte, bool) {
	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= s.ttl {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("cache read failed, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

func (s *FileStore) Set(key string, value []byte) error {
	return os.WriteFile(s.path(key), value, 0o644)
}
