package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the run history.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id               TEXT PRIMARY KEY,
		algorithm        TEXT NOT NULL,
		quantum          INTEGER NOT NULL DEFAULT 0,
		priorities       TEXT NOT NULL DEFAULT 'null',
		processes        TEXT NOT NULL,
		trace            TEXT NOT NULL,
		makespan         INTEGER NOT NULL,
		context_switches INTEGER NOT NULL,
		avg_waiting      REAL NOT NULL,
		avg_turnaround   REAL NOT NULL,
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
