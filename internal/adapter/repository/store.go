package repository

import (
	"context"

	"cv-builder/internal/domain"
)

// Collection keys. Each holds one JSON array.
const (
	KeySessions = "sessions"
	KeyUsers    = "allUsers"
	KeyCVs      = "allCVs"
	KeyBanners  = "adBanners"
)

// KVStore is the persistence boundary: Get returns the last value written
// for key or domain.ErrNotFound, Put replaces it atomically.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var errNotFound = domain.ErrNotFound
