package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
)

const (
	dashboardLogLimit      = 10
	dashboardPurchaseLimit = 5
)

// GetDashboardStats aggregates the owner's inventory and purchases. The
// current year is taken from now in UTC. All reads share one transaction so
// the snapshot is consistent; nothing is written.
func GetDashboardStats(ctx context.Context, db *sql.DB, ownerID uuid.UUID, now time.Time) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{
		TotalInventoryCapacity: len(model.Sections) * model.SectionCapacityUnits,
		TotalSales:             decimal.Zero,
		TotalCostCurrentYear:   decimal.Zero,
		RecentInventoryLogs:    []model.InventoryLog{},
		RecentPurchases:        []model.Purchase{},
	}

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		used, count, err := sectionUsage(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		stats.TotalItemsStored = count
		for _, s := range model.Sections {
			u := used[s]
			stats.UsedInventoryCapacity += u
			stats.SectionCapacities = append(stats.SectionCapacities, model.SectionCapacity{
				Section:           s,
				TotalCapacity:     model.SectionCapacityUnits,
				UsedCapacity:      u,
				RemainingCapacity: model.SectionCapacityUnits - u,
				UsagePercentage:   float64(u) / model.SectionCapacityUnits * 100,
			})
		}

		if err := purchaseTotals(ctx, tx, ownerID, now.UTC().Year(), stats); err != nil {
			return err
		}

		logs, err := recentLogs(ctx, tx, ownerID, dashboardLogLimit)
		if err != nil {
			return err
		}
		if logs != nil {
			stats.RecentInventoryLogs = logs
		}

		purchases, err := listPurchases(ctx, tx, ownerID, purchaseFilter{limit: dashboardPurchaseLimit})
		if err != nil {
			return err
		}
		if purchases != nil {
			stats.RecentPurchases = purchases
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// sectionUsage returns the summed quantity per section and the number of item rows.
func sectionUsage(ctx context.Context, q querier, ownerID uuid.UUID) (map[model.Section]int, int, error) {
	query, args, err := dialect.From("inventory_items").
		Select(goqu.C("section"), goqu.COALESCE(goqu.SUM("quantity"), 0), goqu.COUNT(goqu.Star())).
		Where(goqu.C("owner_id").Eq(ownerID.String())).
		GroupBy("section").
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("building section usage query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying section usage: %w", err)
	}
	defer rows.Close()

	used := make(map[model.Section]int, len(model.Sections))
	total := 0
	for rows.Next() {
		var s model.Section
		var sum, count int
		if err := rows.Scan(&s, &sum, &count); err != nil {
			return nil, 0, fmt.Errorf("scanning section usage: %w", err)
		}
		used[s] = sum
		total += count
	}
	return used, total, rows.Err()
}

// purchaseTotals sums total costs in decimal arithmetic, overall and for
// purchases dated in year.
func purchaseTotals(ctx context.Context, q querier, ownerID uuid.UUID, year int, stats *model.DashboardStats) error {
	rows, err := q.QueryContext(ctx,
		`SELECT total_cost, purchase_date FROM purchases WHERE owner_id = ?`, ownerID,
	)
	if err != nil {
		return fmt.Errorf("querying purchase totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cost decimal.Decimal
		var date time.Time
		if err := rows.Scan(&cost, &date); err != nil {
			return fmt.Errorf("scanning purchase totals: %w", err)
		}
		stats.TotalSales = stats.TotalSales.Add(cost)
		if date.UTC().Year() == year {
			stats.TotalCostCurrentYear = stats.TotalCostCurrentYear.Add(cost)
		}
	}
	return rows.Err()
}
