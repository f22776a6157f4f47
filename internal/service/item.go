package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/dkolesni/itemstash/internal/apperror"
	"github.com/dkolesni/itemstash/internal/db/storage"
	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/logger"
	"github.com/dkolesni/itemstash/internal/models"
)

type itemKeeper interface {
	CreateItem(ctx context.Context, itm *item.Item) (string, error)
	FindItem(ctx context.Context, itemID string) (*item.Item, error)
	ListItems(ctx context.Context, ownerID string) ([]item.Item, error)
	UpdateItem(ctx context.Context, itm *item.Item) error
	DeleteItem(ctx context.Context, itemID string) error
}

// ItemService provides CRUD over a user's personal item collection. Every
// mutation is scoped to the owner; an item that is absent and an item that
// belongs to someone else are indistinguishable to the caller.
type ItemService struct {
	db itemKeeper
}

// NewItems wires an ItemService over the given store.
func NewItems(db itemKeeper) *ItemService {
	return &ItemService{db: db}
}

// Create persists a new item owned by ownerID and returns it with the
// generated id.
func (s *ItemService) Create(ctx context.Context, ownerID, name string, price float64) (*item.Item, error) {
	itm := &item.Item{
		OwnerID: ownerID,
		Name:    name,
		Price:   price,
	}

	itemID, err := s.db.CreateItem(ctx, itm)
	if err != nil {
		logger.Log.Errorln("failed to create item:", zap.Error(err))

		return nil, apperror.NewInternalError("Internal server error", err)
	}
	itm.ID = itemID

	return itm, nil
}

// List returns all items owned by ownerID, in store insertion order. Other
// users' items never appear.
func (s *ItemService) List(ctx context.Context, ownerID string) ([]item.Item, error) {
	items, err := s.db.ListItems(ctx, ownerID)
	if err != nil {
		logger.Log.Errorln("failed to list items:", zap.Error(err))

		return nil, apperror.NewInternalError("Internal server error", err)
	}

	return items, nil
}

// lookupOwned fetches the item and applies the ownership rule shared by
// Update and Delete: a missing record and a record owned by another user
// both come back as the same not-found error, hiding existence from
// non-owners.
func (s *ItemService) lookupOwned(ctx context.Context, ownerID, itemID string) (*item.Item, error) {
	itm, err := s.db.FindItem(ctx, itemID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NewNotFoundError("Item not found")
	}
	if err != nil {
		logger.Log.Errorln("failed to look up item:", zap.Error(err))

		return nil, apperror.NewInternalError("Internal server error", err)
	}
	if itm.OwnerID != ownerID {
		return nil, apperror.NewNotFoundError("Item not found")
	}

	return itm, nil
}

// Update applies the patch over the owner's item and returns the merged
// record. The owner field is never taken from the patch.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID string, patch models.ItemPatch) (*item.Item, error) {
	itm, err := s.lookupOwned(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		itm.Name = *patch.Name
	}
	if patch.Price != nil {
		itm.Price = *patch.Price
	}

	if err := s.db.UpdateItem(ctx, itm); err != nil {
		logger.Log.Errorln("failed to update item:", zap.Error(err))

		return nil, apperror.NewInternalError("Internal server error", err)
	}

	return itm, nil
}

// Delete removes the owner's item. Non-owners get the same not-found error
// as for an absent id.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID string) error {
	if _, err := s.lookupOwned(ctx, ownerID, itemID); err != nil {
		return err
	}

	if err := s.db.DeleteItem(ctx, itemID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Log.Errorln("failed to delete item:", zap.Error(err))

		return apperror.NewInternalError("Internal server error", err)
	}

	return nil
}
