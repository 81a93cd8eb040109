package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is a purchase order with its line items.
type Purchase struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      uuid.UUID       `json:"-"`
	PurchasedBy  string          `json:"purchasedBy"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	Status       PurchaseStatus  `json:"status"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Items        []PurchaseItem  `json:"purchaseItems"`
}

// PurchaseItem is a planned line on a purchase. Once it has been converted
// into an inventory row AddedToInventory stays true.
type PurchaseItem struct {
	ID               uuid.UUID       `json:"id"`
	PurchaseID       uuid.UUID       `json:"-"`
	InventoryItemID  *uuid.UUID      `json:"inventoryItemId"`
	ItemName         string          `json:"itemName"`
	Description      string          `json:"description"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	Section          Section         `json:"section"`
	AddedToInventory bool            `json:"addedToInventory"`
}

// PurchaseStatus is the lifecycle state of a purchase.
type PurchaseStatus string

// Purchase statuses.
const (
	PurchasePending   PurchaseStatus = "Pending"
	PurchaseActive    PurchaseStatus = "Active"
	PurchaseCompleted PurchaseStatus = "Completed"
	PurchaseCancelled PurchaseStatus = "Cancelled"
)

// Valid reports whether s is a known purchase status.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseActive, PurchaseCompleted, PurchaseCancelled:
		return true
	}
	return false
}

// Open reports whether the purchase can still change state.
func (s PurchaseStatus) Open() bool {
	return s == PurchasePending || s == PurchaseActive
}
