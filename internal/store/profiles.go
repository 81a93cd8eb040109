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

// CreateProfile stores the display profile of a new identity.
func CreateProfile(ctx context.Context, db *sql.DB, id uuid.UUID, name string) (*model.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArgument("name required")
	}
	if len(name) > MaxNameLength {
		return nil, invalidArgument("name longer than %d characters", MaxNameLength)
	}

	now := time.Now().UTC()
	p := &model.Profile{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	_, err := db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}
	return p, nil
}

// GetProfile returns the caller's profile.
func GetProfile(ctx context.Context, db *sql.DB, id uuid.UUID) (*model.Profile, error) {
	p := &model.Profile{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM profiles WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return p, nil
}

// UpdateProfile renames the caller's profile and bumps updatedAt. A blank
// name keeps the current one.
func UpdateProfile(ctx context.Context, db *sql.DB, id uuid.UUID, name string) (*model.Profile, error) {
	name = strings.TrimSpace(name)
	if len(name) > MaxNameLength {
		return nil, invalidArgument("name longer than %d characters", MaxNameLength)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE profiles SET name = COALESCE(NULLIF(?, ''), name), updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return GetProfile(ctx, db, id)
}
