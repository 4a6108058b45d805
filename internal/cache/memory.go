package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an LRU-bounded in-memory Store. Useful for token-less
// local runs and tests where no cache directory is wanted.
type MemoryStore struct {
	lru *lru.Cache[string, *entry]
	ttl time.Duration
}

func NewMemoryStore(size int, ttl time.Duration) (*MemoryStore, error) {
	l, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{lru: l, ttl: ttl}, nil
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	e, ok := s.lru.Get(key)
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.lru.Add(key, &entry{data: value, expiresAt: time.Now().Add(s.ttl)})
	return nil
}
