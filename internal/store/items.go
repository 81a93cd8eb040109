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

// MaxNameLength bounds item names and purchase line-item names.
const MaxNameLength = 200

// ItemInput holds the editable fields of an inventory item.
type ItemInput struct {
	Name        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Section     model.Section
	ImageURL    string
}

// Validate checks the input against the item invariants.
func (in ItemInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalidArgument("name required")
	}
	if len(name) > MaxNameLength {
		return invalidArgument("name longer than %d characters", MaxNameLength)
	}
	if in.Quantity < 0 {
		return invalidArgument("quantity must not be negative")
	}
	if in.UnitPrice.IsNegative() {
		return invalidArgument("unit price must not be negative")
	}
	if !in.Section.Valid() {
		return invalidArgument("invalid section %q", in.Section)
	}
	return nil
}

// ItemFilter narrows ListInventoryItems. Zero values match everything.
type ItemFilter struct {
	Section model.Section
	Search  string
}

const itemColumns = `id, owner_id, name, description, quantity, unit_price, section, image_url, created_at, updated_at`

// CreateInventoryItem creates a new inventory item owned by ownerID.
func CreateInventoryItem(ctx context.Context, db *sql.DB, ownerID uuid.UUID, in ItemInput) (*model.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &model.InventoryItem{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Section:     in.Section,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := insertItem(ctx, db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func insertItem(ctx context.Context, q querier, item *model.InventoryItem) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO inventory_items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.OwnerID, item.Name, item.Description, item.Quantity,
		item.UnitPrice, item.Section, item.ImageURL, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating inventory item: %w", err)
	}
	return nil
}

// GetInventoryItem returns an item by ID if it belongs to ownerID.
func GetInventoryItem(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID) (*model.InventoryItem, error) {
	return getItem(ctx, db, id, ownerID)
}

func getItem(ctx context.Context, q querier, id, ownerID uuid.UUID) (*model.InventoryItem, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory_items WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory item: %w", err)
	}
	return item, nil
}

// ListInventoryItems returns the owner's items ordered by name.
func ListInventoryItems(ctx context.Context, db *sql.DB, ownerID uuid.UUID, filter ItemFilter) ([]model.InventoryItem, error) {
	ds := dialect.From("inventory_items").
		Select(goqu.L(itemColumns)).
		Where(goqu.C("owner_id").Eq(ownerID.String())).
		Order(goqu.C("name").Asc(), goqu.C("created_at").Asc()).
		Prepared(true)

	if filter.Section != "" {
		ds = ds.Where(goqu.C("section").Eq(string(filter.Section)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		ds = ds.Where(goqu.Or(
			goqu.C("name").Like("%"+s+"%"),
			goqu.C("description").Like("%"+s+"%"),
		))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inventory items: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateInventoryItem replaces an item's editable fields. It does not write a log entry.
func UpdateInventoryItem(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID, in ItemInput) (*model.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE inventory_items
		 SET name = ?, description = ?, quantity = ?, unit_price = ?, section = ?, image_url = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		strings.TrimSpace(in.Name), in.Description, in.Quantity, in.UnitPrice, in.Section, in.ImageURL,
		time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating inventory item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
	}

	return getItem(ctx, db, id, ownerID)
}

// DeleteInventoryItem deletes an item and, by cascade, its logs. Purchase
// line items linked to it keep their own snapshot and lose the link.
func DeleteInventoryItem(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE id = ? AND owner_id = ?`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting inventory item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
	}
	return nil
}

// ItemImagePath is the URL an item's uploaded image is served from.
func ItemImagePath(id uuid.UUID) string {
	return "/api/inventoryitems/" + id.String() + "/image"
}

// SetItemImage stores an item's image data and points its image URL at it.
func SetItemImage(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE inventory_items SET image = ?, image_mime = ?, image_url = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?`,
		image, mime, ItemImagePath(id), time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id, ownerID uuid.UUID) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM inventory_items WHERE id = ? AND owner_id = ?`, id, ownerID,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	if len(image) == 0 {
		return nil, "", fmt.Errorf("image for item %s: %w", id, ErrNotFound)
	}
	return image, mime.String, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	err := s.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Quantity,
		&item.UnitPrice, &item.Section, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}
