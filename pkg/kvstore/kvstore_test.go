package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupKVTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS kv_entries (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestStoreRoundTrip(t *testing.T) {
	db := setupKVTestDB(t)
	store := New(db)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "cart:abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "cart:abc", `[{"id":1}]`))

	value, found, err := store.Get(ctx, "cart:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":1}]`, value)
}

func TestStoreSetOverwritesWholeValue(t *testing.T) {
	db := setupKVTestDB(t)
	store := New(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:abc", `[1,2]`))
	require.NoError(t, store.Set(ctx, "cart:abc", `[3]`))

	value, found, err := store.Get(ctx, "cart:abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[3]`, value)
}

func TestStoreDeleteMissingKeyIsNoop(t *testing.T) {
	db := setupKVTestDB(t)
	store := New(db)
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "cart:missing"))

	require.NoError(t, store.Set(ctx, "profile:a@b.c", `{"name":"A"}`))
	require.NoError(t, store.Delete(ctx, "profile:a@b.c"))

	_, found, err := store.Get(ctx, "profile:a@b.c")
	require.NoError(t, err)
	assert.False(t, found)
}
