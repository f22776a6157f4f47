// Package mockstorage provides a testify-based mock implementation of the
// storage contract. It is used in handler and service tests to simulate
// backend behavior, including failures no real backend produces on demand.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/user"
)

// StorageMock is a testify mock implementing storage.Storage.
type StorageMock struct {
	mock.Mock
}

// CreateUser mocks user creation and returns a generated ID.
func (m *StorageMock) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	args := m.Called(ctx, usr)
	return args.String(0), args.Error(1)
}

// FindUserByEmail mocks the email lookup.
func (m *StorageMock) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// FindUserByID mocks the id lookup.
func (m *StorageMock) FindUserByID(ctx context.Context, userID string) (*user.User, error) {
	args := m.Called(ctx, userID)
	usr, _ := args.Get(0).(*user.User)
	return usr, args.Error(1)
}

// CreateItem mocks item creation and returns a generated ID.
func (m *StorageMock) CreateItem(ctx context.Context, itm *item.Item) (string, error) {
	args := m.Called(ctx, itm)
	return args.String(0), args.Error(1)
}

// FindItem mocks the item lookup.
func (m *StorageMock) FindItem(ctx context.Context, itemID string) (*item.Item, error) {
	args := m.Called(ctx, itemID)
	itm, _ := args.Get(0).(*item.Item)
	return itm, args.Error(1)
}

// ListItems mocks listing a user's items.
func (m *StorageMock) ListItems(ctx context.Context, ownerID string) ([]item.Item, error) {
	args := m.Called(ctx, ownerID)
	items, _ := args.Get(0).([]item.Item)
	return items, args.Error(1)
}

// UpdateItem mocks the whole-record replace.
func (m *StorageMock) UpdateItem(ctx context.Context, itm *item.Item) error {
	args := m.Called(ctx, itm)
	return args.Error(0)
}

// DeleteItem mocks record removal.
func (m *StorageMock) DeleteItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// Ping mocks the health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
