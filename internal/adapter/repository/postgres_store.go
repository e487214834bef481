package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// pgxConn is the part of *pgxpool.Pool the store needs.
type pgxConn interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// PostgresStore keeps each collection as a jsonb row in kv_store. The table
// is created by the migration package.
type PostgresStore struct {
	db    pgxConn
	close func()
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool, close: pool.Close}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT value::text FROM kv_store WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx, `INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2::text::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(value))
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return err
}

func (s *PostgresStore) Close() error {
	s.close()
	return nil
}
