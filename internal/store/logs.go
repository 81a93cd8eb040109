package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/model"
)

func insertLog(ctx context.Context, q querier, l *model.InventoryLog) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO inventory_logs (id, owner_id, inventory_item_id, action, quantity_changed, performed_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.OwnerID, l.InventoryItemID, l.Action, l.QuantityChanged, l.PerformedBy, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording inventory log: %w", err)
	}
	return nil
}

// logSelect joins the item name, falling back to a placeholder when the
// item row is gone.
const logSelect = `SELECT l.id, l.owner_id, l.inventory_item_id, l.action, l.quantity_changed,
	        l.performed_by, l.created_at, COALESCE(i.name, ?) AS item_name
	 FROM inventory_logs l
	 LEFT JOIN inventory_items i ON i.id = l.inventory_item_id AND i.owner_id = l.owner_id`

// ListItemLogs returns the log history of one item, newest first.
func ListItemLogs(ctx context.Context, db *sql.DB, itemID, ownerID uuid.UUID) ([]model.InventoryLog, error) {
	if _, err := getItem(ctx, db, itemID, ownerID); err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		logSelect+` WHERE l.owner_id = ? AND l.inventory_item_id = ?
		 ORDER BY l.created_at DESC, l.rowid DESC`,
		model.UnknownItemName, ownerID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

// recentLogs returns the owner's newest limit log entries.
func recentLogs(ctx context.Context, q querier, ownerID uuid.UUID, limit int) ([]model.InventoryLog, error) {
	rows, err := q.QueryContext(ctx,
		logSelect+` WHERE l.owner_id = ?
		 ORDER BY l.created_at DESC, l.rowid DESC
		 LIMIT ?`,
		model.UnknownItemName, ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]model.InventoryLog, error) {
	var logs []model.InventoryLog
	for rows.Next() {
		var l model.InventoryLog
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.InventoryItemID, &l.Action, &l.QuantityChanged,
			&l.PerformedBy, &l.CreatedAt, &l.ItemName); err != nil {
			return nil, fmt.Errorf("scanning inventory log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
