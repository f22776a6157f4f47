package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkolesni/itemstash/internal/apperror"
	"github.com/dkolesni/itemstash/internal/db/memorystorage"
	"github.com/dkolesni/itemstash/internal/models"
)

func newItemService(t *testing.T) (*ItemService, *memorystorage.MemoryStorage) {
	t.Helper()

	db, err := memorystorage.New()
	require.NoError(t, err)

	return NewItems(db), db
}

func stringPtr(s string) *string  { return &s }
func floatPtr(f float64) *float64 { return &f }

func requireNotFound(t *testing.T, err error) {
	t.Helper()

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
	assert.Equal(t, "Item not found", appErr.Message)
}

func TestCreateAndList(t *testing.T) {
	items, _ := newItemService(t)
	ctx := context.Background()

	created, err := items.Create(ctx, "owner-a", "Test Item", 100)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-a", created.OwnerID)
	assert.Equal(t, "Test Item", created.Name)
	assert.Equal(t, float64(100), created.Price)

	listed, err := items.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *created, listed[0])
}

func TestListIsOwnerScoped(t *testing.T) {
	items, _ := newItemService(t)
	ctx := context.Background()

	_, err := items.Create(ctx, "owner-a", "A's item", 10)
	require.NoError(t, err)

	otherUsers, err := items.List(ctx, "owner-b")
	require.NoError(t, err)
	assert.Empty(t, otherUsers)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	items, _ := newItemService(t)
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for i, name := range names {
		_, err := items.Create(ctx, "owner-a", name, float64(i))
		require.NoError(t, err)
	}

	listed, err := items.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, listed, len(names))
	for i, name := range names {
		assert.Equal(t, name, listed[i].Name)
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	items, _ := newItemService(t)
	ctx := context.Background()

	created, err := items.Create(ctx, "owner-a", "Test Item", 100)
	require.NoError(t, err)

	updated, err := items.Update(ctx, "owner-a", created.ID, models.ItemPatch{
		Name:  stringPtr("Updated Item"),
		Price: floatPtr(200),
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Item", updated.Name)
	assert.Equal(t, float64(200), updated.Price)
	assert.Equal(t, "owner-a", updated.OwnerID)

	partial, err := items.Update(ctx, "owner-a", created.ID, models.ItemPatch{
		Price: floatPtr(250),
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Item", partial.Name, "absent patch fields keep stored values")
	assert.Equal(t, float64(250), partial.Price)
}

func TestUpdateUnknownItem(t *testing.T) {
	items, _ := newItemService(t)

	_, err := items.Update(context.Background(), "owner-a", "no-such-id", models.ItemPatch{
		Name: stringPtr("anything"),
	})
	requireNotFound(t, err)
}

func TestUpdateForeignItemLooksAbsent(t *testing.T) {
	items, db := newItemService(t)
	ctx := context.Background()

	created, err := items.Create(ctx, "owner-a", "A's item", 100)
	require.NoError(t, err)

	_, err = items.Update(ctx, "owner-b", created.ID, models.ItemPatch{
		Name: stringPtr("hijacked"),
	})
	requireNotFound(t, err)

	stored, err := db.FindItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A's item", stored.Name, "failed update must not mutate the record")
	assert.Equal(t, "owner-a", stored.OwnerID)
}

func TestDeleteForeignItemLooksAbsent(t *testing.T) {
	items, db := newItemService(t)
	ctx := context.Background()

	created, err := items.Create(ctx, "owner-a", "A's item", 100)
	require.NoError(t, err)

	requireNotFound(t, items.Delete(ctx, "owner-b", created.ID))

	stored, err := db.FindItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A's item", stored.Name)
}

func TestDeleteRemovesFromList(t *testing.T) {
	items, _ := newItemService(t)
	ctx := context.Background()

	created, err := items.Create(ctx, "owner-a", "Test Item", 100)
	require.NoError(t, err)

	require.NoError(t, items.Delete(ctx, "owner-a", created.ID))

	listed, err := items.List(ctx, "owner-a")
	require.NoError(t, err)
	assert.Empty(t, listed)

	requireNotFound(t, items.Delete(ctx, "owner-a", created.ID))
}
