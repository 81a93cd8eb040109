package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/db"
)

func TestGetSigningSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetSigningSecret(ctx, database)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := GetSigningSecret(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
