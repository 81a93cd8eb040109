package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
)

// PurchaseInput describes a new purchase order.
type PurchaseInput struct {
	PurchasedBy  string
	PurchaseDate time.Time
	Items        []PurchaseItemInput
}

// PurchaseItemInput describes one planned line of a purchase.
type PurchaseItemInput struct {
	ItemName    string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Section     model.Section
}

// Validate checks the input against the purchase invariants.
func (in PurchaseInput) Validate() error {
	by := strings.TrimSpace(in.PurchasedBy)
	if by == "" {
		return invalidArgument("purchasedBy required")
	}
	if len(by) > MaxNameLength {
		return invalidArgument("purchasedBy longer than %d characters", MaxNameLength)
	}
	if in.PurchaseDate.IsZero() {
		return invalidArgument("purchaseDate required")
	}
	if len(in.Items) == 0 {
		return invalidArgument("at least one purchase item required")
	}
	for i, it := range in.Items {
		name := strings.TrimSpace(it.ItemName)
		switch {
		case name == "":
			return invalidArgument("item %d: itemName required", i+1)
		case len(name) > MaxNameLength:
			return invalidArgument("item %d: itemName longer than %d characters", i+1, MaxNameLength)
		case it.Quantity <= 0:
			return invalidArgument("item %d: quantity must be greater than zero", i+1)
		case it.UnitPrice.IsNegative():
			return invalidArgument("item %d: unit price must not be negative", i+1)
		case !it.Section.Valid():
			return invalidArgument("item %d: invalid section %q", i+1, it.Section)
		}
	}
	return nil
}

// CreatePurchase records a pending purchase. TotalCost is the sum of the
// line totals at creation and is never recomputed.
func CreatePurchase(ctx context.Context, db *sql.DB, ownerID uuid.UUID, in PurchaseInput) (*model.Purchase, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Purchase{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		PurchasedBy:  strings.TrimSpace(in.PurchasedBy),
		TotalCost:    decimal.Zero,
		Status:       model.PurchasePending,
		PurchaseDate: in.PurchaseDate.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, it := range in.Items {
		pi := model.PurchaseItem{
			ID:          uuid.New(),
			PurchaseID:  p.ID,
			ItemName:    strings.TrimSpace(it.ItemName),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
			Section:     it.Section,
		}
		p.TotalCost = p.TotalCost.Add(pi.TotalPrice)
		p.Items = append(p.Items, pi)
	}

	err := withTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO purchases (id, owner_id, purchased_by, total_cost, status, purchase_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.OwnerID, p.PurchasedBy, p.TotalCost, p.Status, p.PurchaseDate, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("creating purchase: %w", err)
		}

		for i, pi := range p.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO purchase_items (id, purchase_id, position, item_name, description, quantity,
				                             unit_price, total_price, section, added_to_inventory)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
				pi.ID, pi.PurchaseID, i, pi.ItemName, pi.Description, pi.Quantity,
				pi.UnitPrice, pi.TotalPrice, pi.Section,
			)
			if err != nil {
				return fmt.Errorf("creating purchase item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPurchase returns a purchase with its line items if it belongs to ownerID.
func GetPurchase(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID) (*model.Purchase, error) {
	return getPurchase(ctx, db, id, ownerID)
}

func getPurchase(ctx context.Context, q querier, id, ownerID uuid.UUID) (*model.Purchase, error) {
	purchases, err := listPurchases(ctx, q, ownerID, purchaseFilter{id: &id})
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return nil, fmt.Errorf("purchase %s: %w", id, ErrNotFound)
	}
	return &purchases[0], nil
}

// ListPurchases returns all of the owner's purchases, newest first.
func ListPurchases(ctx context.Context, db *sql.DB, ownerID uuid.UUID) ([]model.Purchase, error) {
	return listPurchases(ctx, db, ownerID, purchaseFilter{})
}

// ListActivePurchases returns the owner's pending and active purchases, newest first.
func ListActivePurchases(ctx context.Context, db *sql.DB, ownerID uuid.UUID) ([]model.Purchase, error) {
	return listPurchases(ctx, db, ownerID, purchaseFilter{
		statuses: []model.PurchaseStatus{model.PurchasePending, model.PurchaseActive},
	})
}

// SetPurchaseStatus moves an open purchase to Active or Cancelled.
// Completed is reachable only through CompletePurchase.
func SetPurchaseStatus(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID, status model.PurchaseStatus) (*model.Purchase, error) {
	if !status.Valid() {
		return nil, invalidArgument("invalid status %q", status)
	}
	if status == model.PurchaseCompleted {
		return nil, invalidOperation("purchases are completed through the complete operation")
	}

	var p *model.Purchase
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		current, err := getPurchase(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		if current.Status == status {
			p = current
			return nil
		}
		allowed := current.Status.Open() && (status == model.PurchaseCancelled ||
			(status == model.PurchaseActive && current.Status == model.PurchasePending))
		if !allowed {
			return invalidOperation("cannot change purchase status from %s to %s", current.Status, status)
		}

		now := time.Now().UTC()
		_, err = tx.ExecContext(ctx,
			`UPDATE purchases SET status = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
			status, now, id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("updating purchase status: %w", err)
		}

		current.Status = status
		current.UpdatedAt = now
		p = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CompletePurchase turns every unconverted line item into a new inventory
// item with a matching log entry and marks the purchase Completed, all in
// one transaction. Completing an already completed purchase is a no-op.
func CompletePurchase(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID) (*model.Purchase, error) {
	err := withTx(ctx, db, func(tx *sql.Tx) error {
		p, err := getPurchase(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}
		switch p.Status {
		case model.PurchaseCompleted:
			return nil
		case model.PurchaseCancelled:
			return invalidOperation("purchase %s is cancelled", id)
		}

		now := time.Now().UTC()
		for _, pi := range p.Items {
			if pi.AddedToInventory {
				continue
			}

			item := &model.InventoryItem{
				ID:          uuid.New(),
				OwnerID:     ownerID,
				Name:        pi.ItemName,
				Description: pi.Description,
				Quantity:    pi.Quantity,
				UnitPrice:   pi.UnitPrice,
				Section:     pi.Section,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := insertItem(ctx, tx, item); err != nil {
				return err
			}

			result, err := tx.ExecContext(ctx,
				`UPDATE purchase_items SET inventory_item_id = ?, added_to_inventory = 1
				 WHERE id = ? AND added_to_inventory = 0`,
				item.ID, pi.ID,
			)
			if err != nil {
				return fmt.Errorf("linking purchase item: %w", err)
			}
			if n, _ := result.RowsAffected(); n != 1 {
				return fmt.Errorf("purchase item %s already converted", pi.ID)
			}

			err = insertLog(ctx, tx, &model.InventoryLog{
				ID:              uuid.New(),
				OwnerID:         ownerID,
				InventoryItemID: item.ID,
				Action:          model.ActionPurchaseCompleted,
				QuantityChanged: pi.Quantity,
				PerformedBy:     p.PurchasedBy,
				CreatedAt:       now,
			})
			if err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE purchases SET status = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
			model.PurchaseCompleted, now, id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("completing purchase: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return getPurchase(ctx, db, id, ownerID)
}

// DeletePurchase deletes a purchase and its line items. Inventory rows
// created by completing it are kept.
func DeletePurchase(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM purchases WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting purchase: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("purchase %s: %w", id, ErrNotFound)
	}
	return nil
}

type purchaseFilter struct {
	id       *uuid.UUID
	statuses []model.PurchaseStatus
	limit    uint
}

// listPurchases loads matching purchases newest first, then their line items
// in insertion order. Display name and description prefer the linked
// inventory item's current values.
func listPurchases(ctx context.Context, q querier, ownerID uuid.UUID, f purchaseFilter) ([]model.Purchase, error) {
	ds := dialect.From("purchases").
		Select("id", "owner_id", "purchased_by", "total_cost", "status", "purchase_date", "created_at", "updated_at").
		Where(goqu.C("owner_id").Eq(ownerID.String())).
		Order(goqu.C("created_at").Desc(), goqu.L("rowid").Desc()).
		Prepared(true)

	if f.id != nil {
		ds = ds.Where(goqu.C("id").Eq(f.id.String()))
	}
	if len(f.statuses) > 0 {
		statuses := make([]string, len(f.statuses))
		for i, s := range f.statuses {
			statuses[i] = string(s)
		}
		ds = ds.Where(goqu.C("status").In(statuses))
	}
	if f.limit > 0 {
		ds = ds.Limit(f.limit)
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building purchase query: %w", err)
	}

	purchases, err := queryPurchases(ctx, q, query, args)
	if err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return purchases, nil
	}

	ids := make([]string, len(purchases))
	index := make(map[uuid.UUID]int, len(purchases))
	for i := range purchases {
		ids[i] = purchases[i].ID.String()
		index[purchases[i].ID] = i
		purchases[i].Items = []model.PurchaseItem{}
	}

	items, err := queryPurchaseItems(ctx, q, ownerID, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		i := index[it.PurchaseID]
		purchases[i].Items = append(purchases[i].Items, it)
	}
	return purchases, nil
}

func queryPurchases(ctx context.Context, q querier, query string, args []any) ([]model.Purchase, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.Purchase
	for rows.Next() {
		var p model.Purchase
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.PurchasedBy, &p.TotalCost, &p.Status,
			&p.PurchaseDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func queryPurchaseItems(ctx context.Context, q querier, ownerID uuid.UUID, purchaseIDs []string) ([]model.PurchaseItem, error) {
	query, args, err := dialect.From(goqu.T("purchase_items").As("pi")).
		LeftJoin(goqu.T("inventory_items").As("ii"), goqu.On(
			goqu.I("ii.id").Eq(goqu.I("pi.inventory_item_id")),
			goqu.I("ii.owner_id").Eq(ownerID.String()),
		)).
		Select(
			goqu.I("pi.id"), goqu.I("pi.purchase_id"), goqu.I("pi.inventory_item_id"),
			goqu.COALESCE(goqu.I("ii.name"), goqu.I("pi.item_name")),
			goqu.COALESCE(goqu.I("ii.description"), goqu.I("pi.description")),
			goqu.I("pi.quantity"), goqu.I("pi.unit_price"), goqu.I("pi.total_price"),
			goqu.I("pi.section"), goqu.I("pi.added_to_inventory"),
		).
		Where(goqu.I("pi.purchase_id").In(purchaseIDs)).
		Order(goqu.I("pi.purchase_id").Asc(), goqu.I("pi.position").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building purchase item query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchase items: %w", err)
	}
	defer rows.Close()

	var items []model.PurchaseItem
	for rows.Next() {
		var it model.PurchaseItem
		var linked uuid.NullUUID
		if err := rows.Scan(&it.ID, &it.PurchaseID, &linked, &it.ItemName, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.Section, &it.AddedToInventory); err != nil {
			return nil, fmt.Errorf("scanning purchase item: %w", err)
		}
		if linked.Valid {
			id := linked.UUID
			it.InventoryItemID = &id
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
