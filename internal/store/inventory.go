package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/zaloga/internal/model"
)

// RemoveStock takes quantity units out of an item and records the removal.
// The update and the log entry commit together. Removing more than is in
// stock fails with ErrInvalidOperation and changes nothing.
func RemoveStock(ctx context.Context, db *sql.DB, itemID, ownerID uuid.UUID, quantity int, performedBy, reason string) (*model.InventoryItem, error) {
	if quantity <= 0 {
		return nil, invalidArgument("quantity must be greater than zero")
	}

	action := strings.TrimSpace(reason)
	if action == "" {
		action = model.ActionStockAdjustment
	}
	performer := strings.TrimSpace(performedBy)
	if performer == "" {
		performer = model.PerformedBySystem
	}

	var item *model.InventoryItem
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		current, err := getItem(ctx, tx, itemID, ownerID)
		if err != nil {
			return err
		}
		if current.Quantity < quantity {
			return invalidOperation("insufficient stock: have %d, need %d", current.Quantity, quantity)
		}

		now := time.Now().UTC()
		result, err := tx.ExecContext(ctx,
			`UPDATE inventory_items SET quantity = quantity - ?, updated_at = ?
			 WHERE id = ? AND owner_id = ? AND quantity >= ?`,
			quantity, now, itemID, ownerID, quantity,
		)
		if err != nil {
			return fmt.Errorf("removing stock: %w", err)
		}
		if n, _ := result.RowsAffected(); n != 1 {
			return invalidOperation("insufficient stock")
		}

		err = insertLog(ctx, tx, &model.InventoryLog{
			ID:              uuid.New(),
			OwnerID:         ownerID,
			InventoryItemID: itemID,
			Action:          action,
			QuantityChanged: -quantity,
			PerformedBy:     performer,
			CreatedAt:       now,
		})
		if err != nil {
			return err
		}

		current.Quantity -= quantity
		current.UpdatedAt = now
		item = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
