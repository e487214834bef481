package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migration is one idempotent schema step.
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// Migrations lists the steps in the order they run.
var Migrations = []Migration{
	{Name: "create_kv_store", Up: createKVStore},
	{Name: "add_kv_store_updated_at_index", Up: addUpdatedAtIndex},
}

// RunMigrations applies every step on startup. A failing step stops the run.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

func createKVStore(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL DEFAULT '[]'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := pool.Exec(ctx, query)
	return err
}

func addUpdatedAtIndex(ctx context.Context, pool *pgxpool.Pool) error {
	query := `CREATE INDEX IF NOT EXISTS kv_store_updated_at_idx ON kv_store (updated_at);`

	if _, err := pool.Exec(ctx, query); err != nil {
		// the index is only used by operators inspecting the table
		slog.Warn("Error creating kv_store index", "error", err)
		return nil
	}
	return nil
}
