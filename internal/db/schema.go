package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Money columns hold decimal strings.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory_items (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL CHECK (quantity >= 0),
    unit_price  TEXT NOT NULL DEFAULT '0',
    section     TEXT NOT NULL CHECK (section IN ('A', 'B', 'C', 'D')),
    image_url   TEXT NOT NULL DEFAULT '',
    image       BLOB,
    image_mime  TEXT,
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inventory_items_owner ON inventory_items(owner_id);

CREATE TABLE IF NOT EXISTS purchases (
    id            TEXT PRIMARY KEY,
    owner_id      TEXT NOT NULL,
    purchased_by  TEXT NOT NULL,
    total_cost    TEXT NOT NULL DEFAULT '0',
    status        TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Active', 'Completed', 'Cancelled')),
    purchase_date DATETIME NOT NULL,
    created_at    DATETIME NOT NULL,
    updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_purchases_owner ON purchases(owner_id);

CREATE TABLE IF NOT EXISTS purchase_items (
    id                 TEXT PRIMARY KEY,
    purchase_id        TEXT NOT NULL REFERENCES purchases(id) ON DELETE CASCADE,
    position           INTEGER NOT NULL,
    inventory_item_id  TEXT REFERENCES inventory_items(id) ON DELETE SET NULL,
    item_name          TEXT NOT NULL,
    description        TEXT NOT NULL DEFAULT '',
    quantity           INTEGER NOT NULL CHECK (quantity > 0),
    unit_price         TEXT NOT NULL,
    total_price        TEXT NOT NULL,
    section            TEXT NOT NULL CHECK (section IN ('A', 'B', 'C', 'D')),
    added_to_inventory INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_purchase_items_purchase ON purchase_items(purchase_id, position);

CREATE TABLE IF NOT EXISTS inventory_logs (
    id                TEXT PRIMARY KEY,
    owner_id          TEXT NOT NULL,
    inventory_item_id TEXT NOT NULL REFERENCES inventory_items(id) ON DELETE CASCADE,
    action            TEXT NOT NULL,
    quantity_changed  INTEGER NOT NULL,
    performed_by      TEXT NOT NULL,
    created_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inventory_logs_owner ON inventory_logs(owner_id, created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
