// Package storage declares the persistence contract shared by all storage
// backends: user records keyed by unique email and item records keyed by id
// and owner.
package storage

import (
	"context"
	"errors"

	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/user"
)

// ErrNotFound is returned when no record matches the requested id or email.
var ErrNotFound = errors.New("record not found")

// ErrEmailTaken is returned by CreateUser when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// Storage is the full persistence capability set consumed by the services.
// Every implementation must guarantee that a single create/update/delete is
// atomic with respect to its own record; no cross-record transactional
// guarantees are required.
type Storage interface {
	// CreateUser persists a new user and returns its generated id.
	// Returns ErrEmailTaken if a user with the same email already exists.
	CreateUser(ctx context.Context, usr *user.User) (string, error)

	// FindUserByEmail returns the user with the exact (case-sensitive) email,
	// or ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)

	// FindUserByID returns the user with the given id, or ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*user.User, error)

	// CreateItem persists a new item and returns its generated id.
	CreateItem(ctx context.Context, itm *item.Item) (string, error)

	// FindItem returns the item with the given id regardless of owner,
	// or ErrNotFound. Ownership checks belong to the caller.
	FindItem(ctx context.Context, itemID string) (*item.Item, error)

	// ListItems returns all items owned by ownerID in insertion order.
	ListItems(ctx context.Context, ownerID string) ([]item.Item, error)

	// UpdateItem replaces the stored record having itm.ID with itm.
	// Returns ErrNotFound if no such record exists.
	UpdateItem(ctx context.Context, itm *item.Item) error

	// DeleteItem removes the item with the given id.
	// Returns ErrNotFound if no such record exists.
	DeleteItem(ctx context.Context, itemID string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend resources, flushing state where applicable.
	Close() error
}
