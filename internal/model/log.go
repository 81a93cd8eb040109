package model

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLog is an append-only record of a quantity change.
// QuantityChanged is negative for removals.
type InventoryLog struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"-"`
	InventoryItemID uuid.UUID `json:"inventoryItemId"`
	Action          string    `json:"action"`
	QuantityChanged int       `json:"quantityChanged"`
	PerformedBy     string    `json:"performedBy"`
	CreatedAt       time.Time `json:"createdAt"`

	// Joined fields (not always populated).
	ItemName string `json:"itemName,omitempty"`
}

// Log actions and defaults.
const (
	ActionPurchaseCompleted = "Purchase Completed"
	ActionStockAdjustment   = "Stock adjustment"
	PerformedBySystem       = "System"
)
