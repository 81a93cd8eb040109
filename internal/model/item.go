package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a stocked item owned by a single user.
type InventoryItem struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"-"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Section     Section         `json:"section"`
	ImageURL    string          `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Section is one of the fixed storage zones.
type Section string

// Storage sections.
const (
	SectionA Section = "A"
	SectionB Section = "B"
	SectionC Section = "C"
	SectionD Section = "D"
)

// Sections lists every storage section in display order.
var Sections = []Section{SectionA, SectionB, SectionC, SectionD}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	switch s {
	case SectionA, SectionB, SectionC, SectionD:
		return true
	}
	return false
}
