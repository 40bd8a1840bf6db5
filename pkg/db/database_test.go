package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	db, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.Nil(t, db)
}

func TestOpenSQLite_Memory(t *testing.T) {
	t.Parallel()

	db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("PADIPOS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PADIPOS_TEST_DATABASE_URL is required for this test")
	}

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, Close(db))
}
