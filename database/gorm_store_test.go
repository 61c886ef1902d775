package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/waffle-wala/models"
)

func setupTestStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	return NewGormStore(db)
}

func TestCreateIsExclusive(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc, err := store.Create(ctx, models.CollectionInventory, models.DocStock, []byte(`{}`), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Version)

	_, err = store.Create(ctx, models.CollectionInventory, models.DocStock, []byte(`{"x":1}`), 2)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	got, err := store.Get(ctx, models.CollectionInventory, models.DocStock)
	require.NoError(t, err)
	assert.Equal(t, `{}`, got.Data)
}

func TestUpdateIfVersionDetectsConflict(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	doc, err := store.Create(ctx, "orders", "o1", []byte(`{"status":"pending"}`), 1)
	require.NoError(t, err)

	updated, err := store.UpdateIfVersion(ctx, "orders", "o1", doc.Version, []byte(`{"status":"completed"}`))
	require.NoError(t, err)
	assert.Equal(t, doc.Version+1, updated.Version)

	// a second writer still holding the old version loses
	_, err = store.UpdateIfVersion(ctx, "orders", "o1", doc.Version, []byte(`{"status":"cancelled"}`))
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = store.UpdateIfVersion(ctx, "orders", "missing", 1, []byte(`{}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersByTimestampDesc(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		_, err := store.Create(ctx, "orders", id, []byte(`{}`), int64(100+i))
		require.NoError(t, err)
	}
	_, err := store.Create(ctx, "suggestions", "s1", []byte(`{}`), 500)
	require.NoError(t, err)

	docs, err := store.List(ctx, "orders")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "c", docs[0].DocID)
	assert.Equal(t, "a", docs[2].DocID)
}

func TestMutationsAppendChanges(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	start, err := store.LatestChangeID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), start)

	_, err = store.Put(ctx, models.CollectionSettings, models.DocOperations, []byte(`{"closed":true}`))
	require.NoError(t, err)
	_, err = store.Put(ctx, models.CollectionSettings, models.DocOperations, []byte(`{"closed":false}`))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, models.CollectionSettings, models.DocOperations))
	assert.ErrorIs(t, store.Delete(ctx, models.CollectionSettings, models.DocOperations), ErrNotFound)

	changes, err := store.ChangesSince(ctx, start, 10)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, models.ActionInsert, changes[0].ActionType)
	assert.Equal(t, models.ActionUpdate, changes[1].ActionType)
	assert.Equal(t, models.ActionDelete, changes[2].ActionType)
	assert.Equal(t, "settings/operations", changes[2].Path())

	latest, err := store.LatestChangeID(ctx)
	require.NoError(t, err)
	assert.Equal(t, changes[2].ID, latest)
}
