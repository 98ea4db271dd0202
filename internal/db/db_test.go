package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/kanjiflash/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := db.Open(path)
	require.NoError(t, err)
	versions, err := first.Applied(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, versions)
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()
	versions, err = second.Applied(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql"}, versions)

	var count int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOpen_InMemory(t *testing.T) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.PingContext(context.Background()))
}
