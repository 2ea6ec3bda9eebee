package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists every schema step in the order they are applied. Each
// step is idempotent so the list can run on every startup.
var Migrations = []Migration{
	{
		Name: "create_resumes",
		SQL: `
			CREATE TABLE IF NOT EXISTS resumes (
				id          UUID PRIMARY KEY,
				owner_id    TEXT NOT NULL,
				title       VARCHAR(100) NOT NULL,
				template    TEXT NOT NULL DEFAULT 'modern',
				content     JSONB NOT NULL DEFAULT '{}'::jsonb,
				public_id   TEXT,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			);
		`,
	},
	{
		Name: "add_resumes_public_id_unique",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS resumes_public_id_key ON resumes (public_id) WHERE public_id IS NOT NULL;`,
	},
	{
		Name: "add_resumes_owner_updated_idx",
		SQL:  `CREATE INDEX IF NOT EXISTS resumes_owner_updated_idx ON resumes (owner_id, updated_at DESC);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}
