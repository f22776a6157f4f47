package jsondb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkolesni/itemstash/internal/db/storage"
	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/user"
)

func newTestDB(t *testing.T) (*JSONDB, string) {
	t.Helper()

	fileName := filepath.Join(t.TempDir(), "db_test.json")
	db, err := New(fileName)
	require.NoError(t, err)

	return db, fileName
}

func TestCreateUserEnforcesUniqueEmail(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, &user.User{Email: "test@user.com", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	_, err = db.CreateUser(ctx, &user.User{Email: "test@user.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	assert.Len(t, db.Cache.Users, 1)
}

func TestFindUser(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, &user.User{Email: "test@user.com", PasswordHash: "hash"})
	require.NoError(t, err)

	byEmail, err := db.FindUserByEmail(ctx, "test@user.com")
	require.NoError(t, err)
	assert.Equal(t, userID, byEmail.ID)

	byID, err := db.FindUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "test@user.com", byID.Email)

	_, err = db.FindUserByEmail(ctx, "TEST@USER.COM")
	assert.ErrorIs(t, err, storage.ErrNotFound, "email lookup is case-sensitive")

	_, err = db.FindUserByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestItemLifecycle(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	itm := &item.Item{OwnerID: "owner-a", Name: "Test Item", Price: 100}
	itemID, err := db.CreateItem(ctx, itm)
	require.NoError(t, err)

	found, err := db.FindItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, *itm, *found)

	found.Price = 200
	require.NoError(t, db.UpdateItem(ctx, found))

	updated, err := db.FindItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, float64(200), updated.Price)

	require.NoError(t, db.DeleteItem(ctx, itemID))
	_, err = db.FindItem(ctx, itemID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, db.DeleteItem(ctx, itemID), storage.ErrNotFound)
	assert.ErrorIs(t, db.UpdateItem(ctx, found), storage.ErrNotFound)
}

func TestCloseAndReload(t *testing.T) {
	db, fileName := newTestDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, &user.User{Email: "test@user.com", PasswordHash: "hash"})
	require.NoError(t, err)
	itemID, err := db.CreateItem(ctx, &item.Item{OwnerID: userID, Name: "Test Item", Price: 100})
	require.NoError(t, err)

	require.NoError(t, db.Close())

	reloaded, err := New(fileName)
	require.NoError(t, err)

	usr, err := reloaded.FindUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "test@user.com", usr.Email)

	items, err := reloaded.ListItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, itemID, items[0].ID)
}

func TestNewInitializesMissingFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "fresh.json")

	db, err := New(fileName)
	require.NoError(t, err)
	assert.Empty(t, db.Cache.Users)
	assert.Empty(t, db.Cache.Items)

	_, err = os.Stat(fileName)
	assert.NoError(t, err)
}
