package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	pool, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer pool.Close()

	var count int
	err = pool.GetContext(ctx, &count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'kv_store'`)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Running the schema twice is harmless.
	require.NoError(t, InitializeDB(ctx, pool))
}
