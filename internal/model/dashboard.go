package model

import "github.com/shopspring/decimal"

// SectionCapacityUnits is the fixed capacity of every storage section.
const SectionCapacityUnits = 1000

// UnknownItemName is shown for log entries whose item no longer exists.
const UnknownItemName = "Inventory Item"

// DashboardStats is a read-only snapshot of one user's inventory and purchases.
type DashboardStats struct {
	TotalInventoryCapacity int               `json:"totalInventoryCapacity"`
	UsedInventoryCapacity  int               `json:"usedInventoryCapacity"`
	TotalItemsStored       int               `json:"totalItemsStored"`
	TotalSales             decimal.Decimal   `json:"totalSales"`
	TotalCostCurrentYear   decimal.Decimal   `json:"totalCostCurrentYear"`
	SectionCapacities      []SectionCapacity `json:"sectionCapacities"`
	RecentInventoryLogs    []InventoryLog    `json:"recentInventoryLogs"`
	RecentPurchases        []Purchase        `json:"recentPurchases"`
}

// SectionCapacity describes how full a single section is. UsagePercentage is
// not clamped and may exceed 100.
type SectionCapacity struct {
	Section           Section `json:"section"`
	TotalCapacity     int     `json:"totalCapacity"`
	UsedCapacity      int     `json:"usedCapacity"`
	RemainingCapacity int     `json:"remainingCapacity"`
	UsagePercentage   float64 `json:"usagePercentage"`
}
