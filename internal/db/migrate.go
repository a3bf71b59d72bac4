package db

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; every statement is idempotent so the
// whole list re-runs safely on each open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		writer TEXT NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_updated_at ON posts(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_pair ON posts(category, subcategory)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
