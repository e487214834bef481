package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cv-builder/internal/domain"
	"cv-builder/internal/model"
)

// Collections reads and writes the typed collections on top of a KVStore.
// A collection that was never written loads as empty.
type Collections struct {
	kv KVStore
}

func NewCollections(kv KVStore) *Collections { return &Collections{kv: kv} }

func (c *Collections) Users(ctx context.Context) ([]domain.User, error) {
	return load[domain.User](ctx, c.kv, KeyUsers)
}

func (c *Collections) SaveUsers(ctx context.Context, users []domain.User) error {
	return save(ctx, c.kv, KeyUsers, users)
}

func (c *Collections) CVs(ctx context.Context) ([]*model.Document, error) {
	return load[*model.Document](ctx, c.kv, KeyCVs)
}

func (c *Collections) SaveCVs(ctx context.Context, cvs []*model.Document) error {
	return save(ctx, c.kv, KeyCVs, cvs)
}

func (c *Collections) Banners(ctx context.Context) ([]domain.AdBanner, error) {
	return load[domain.AdBanner](ctx, c.kv, KeyBanners)
}

func (c *Collections) SaveBanners(ctx context.Context, banners []domain.AdBanner) error {
	return save(ctx, c.kv, KeyBanners, banners)
}

func (c *Collections) Sessions(ctx context.Context) ([]domain.Session, error) {
	return load[domain.Session](ctx, c.kv, KeySessions)
}

func (c *Collections) SaveSessions(ctx context.Context, sessions []domain.Session) error {
	return save(ctx, c.kv, KeySessions, sessions)
}

func load[T any](ctx context.Context, kv KVStore, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func save[T any](ctx context.Context, kv KVStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
