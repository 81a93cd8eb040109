package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func TestDashboard_Empty(t *testing.T) {
	database := db.NewTestDB(t)

	stats, err := GetDashboardStats(context.Background(), database, uuid.New(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 4000, stats.TotalInventoryCapacity)
	assert.Zero(t, stats.UsedInventoryCapacity)
	assert.Zero(t, stats.TotalItemsStored)
	assert.True(t, stats.TotalSales.IsZero())
	assert.True(t, stats.TotalCostCurrentYear.IsZero())
	require.Len(t, stats.SectionCapacities, 4)
	for _, sc := range stats.SectionCapacities {
		assert.Equal(t, 1000, sc.TotalCapacity)
		assert.Zero(t, sc.UsedCapacity)
		assert.Equal(t, 1000, sc.RemainingCapacity)
		assert.Equal(t, 0.0, sc.UsagePercentage)
	}
	assert.NotNil(t, stats.RecentInventoryLogs)
	assert.Empty(t, stats.RecentInventoryLogs)
	assert.NotNil(t, stats.RecentPurchases)
	assert.Empty(t, stats.RecentPurchases)
}

func TestDashboard_Aggregates(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mustCreateItem(t, database, owner, "Screws", 250, model.SectionA)
	mustCreateItem(t, database, owner, "Bolts", 100, model.SectionA)
	mustCreateItem(t, database, owner, "Pallets", 1200, model.SectionD)
	mustCreateItem(t, database, uuid.New(), "Foreign", 999, model.SectionB)

	thisYear := twoLinePurchase()
	mustCreatePurchase(t, database, owner, thisYear)
	lastYear := twoLinePurchase()
	lastYear.PurchaseDate = time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	lastYear.Items = lastYear.Items[:1]
	mustCreatePurchase(t, database, owner, lastYear)

	stats, err := GetDashboardStats(ctx, database, owner, now)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalItemsStored)
	assert.Equal(t, 1550, stats.UsedInventoryCapacity)
	assert.True(t, decimal.NewFromInt(110).Equal(stats.TotalSales), stats.TotalSales.String())
	assert.True(t, decimal.NewFromInt(80).Equal(stats.TotalCostCurrentYear), stats.TotalCostCurrentYear.String())

	bySection := map[model.Section]model.SectionCapacity{}
	for _, sc := range stats.SectionCapacities {
		bySection[sc.Section] = sc
	}
	assert.Equal(t, 350, bySection[model.SectionA].UsedCapacity)
	assert.Equal(t, 650, bySection[model.SectionA].RemainingCapacity)
	assert.InDelta(t, 35.0, bySection[model.SectionA].UsagePercentage, 1e-9)
	assert.Zero(t, bySection[model.SectionB].UsedCapacity)
	assert.Equal(t, -200, bySection[model.SectionD].RemainingCapacity)
	assert.InDelta(t, 120.0, bySection[model.SectionD].UsagePercentage, 1e-9)

	require.Len(t, stats.RecentPurchases, 2)
	assert.Len(t, stats.RecentPurchases[0].Items, 1)
}

func TestDashboard_RecentLimits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := uuid.New()
	item := mustCreateItem(t, database, owner, "Bags", 100, model.SectionB)

	for range 12 {
		_, err := RemoveStock(ctx, database, item.ID, owner, 1, "", "")
		require.NoError(t, err)
	}
	var last *model.Purchase
	for range 6 {
		last = mustCreatePurchase(t, database, owner, twoLinePurchase())
	}

	stats, err := GetDashboardStats(ctx, database, owner, time.Now())
	require.NoError(t, err)
	assert.Len(t, stats.RecentInventoryLogs, 10)
	require.Len(t, stats.RecentPurchases, 5)
	assert.Equal(t, last.ID, stats.RecentPurchases[0].ID)
	assert.Equal(t, "Bags", stats.RecentInventoryLogs[0].ItemName)
}

func TestDashboard_DeletedItemFallsBackToSnapshot(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := uuid.New()
	p := mustCreatePurchase(t, database, owner, twoLinePurchase())
	done, err := CompletePurchase(ctx, database, p.ID, owner)
	require.NoError(t, err)

	require.NoError(t, DeleteInventoryItem(ctx, database, *done.Items[1].InventoryItemID, owner))

	stats, err := GetDashboardStats(ctx, database, owner, time.Now())
	require.NoError(t, err)
	require.Len(t, stats.RecentPurchases, 1)
	assert.Equal(t, "Ladder", stats.RecentPurchases[0].Items[1].ItemName)
	require.Len(t, stats.RecentInventoryLogs, 1)
	assert.Equal(t, "Gloves", stats.RecentInventoryLogs[0].ItemName)
}

func TestDashboard_Isolation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	item := mustCreateItem(t, database, alice, "Crates", 40, model.SectionC)
	_, err := RemoveStock(ctx, database, item.ID, alice, 5, "Alice", "Sold")
	require.NoError(t, err)
	mustCreatePurchase(t, database, alice, twoLinePurchase())

	stats, err := GetDashboardStats(ctx, database, bob, time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalItemsStored)
	assert.Zero(t, stats.UsedInventoryCapacity)
	assert.True(t, stats.TotalSales.IsZero())
	assert.Empty(t, stats.RecentInventoryLogs)
	assert.Empty(t, stats.RecentPurchases)
}
