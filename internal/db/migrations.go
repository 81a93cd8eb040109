package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: dashboard reads the newest logs per owner and item.
	`CREATE INDEX IF NOT EXISTS idx_inventory_logs_item
	     ON inventory_logs(inventory_item_id, created_at)`,
}

// Migrate ensures the schema and then runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
