package repository

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps values in process. Nothing expires.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(cache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, errNotFound
	}
	b := v.([]byte)
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	b := make([]byte, len(value))
	copy(b, value)
	s.c.Set(key, b, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
