package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/db"
)

func TestProfiles(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := GetProfile(ctx, database, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = CreateProfile(ctx, database, id, "  ")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	created, err := CreateProfile(ctx, database, id, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Name)

	time.Sleep(5 * time.Millisecond)
	unchanged, err := UpdateProfile(ctx, database, id, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", unchanged.Name)
	assert.True(t, unchanged.UpdatedAt.After(created.UpdatedAt), "updatedAt %v not after %v", unchanged.UpdatedAt, created.UpdatedAt)
	assert.True(t, unchanged.CreatedAt.Equal(created.CreatedAt))

	renamed, err := UpdateProfile(ctx, database, id, "Alice Smith")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", renamed.Name)

	_, err = UpdateProfile(ctx, database, uuid.New(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = UpdateProfile(ctx, database, uuid.New(), "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
