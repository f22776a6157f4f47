// Package jsondb implements the storage contract on top of a single JSON
// file. All records live in an in-memory cache which is loaded on startup
// and flushed back to disk on Close.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"

	"github.com/dkolesni/itemstash/internal/db/storage"
	"github.com/dkolesni/itemstash/internal/item"
	"github.com/dkolesni/itemstash/internal/user"
)

// CacheStruct is the on-disk document layout: two flat collections, in
// insertion order.
type CacheStruct struct {
	Users []user.User `json:"users"`
	Items []item.Item `json:"items"`
}

// JSONDB is a file-backed storage implementation. The mutex serializes all
// record access, which also provides the per-record atomicity the services
// rely on.
type JSONDB struct {
	fileName string

	mu    sync.RWMutex
	Cache CacheStruct
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"users": [],
	"items": []
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(cache)
}

// New loads the storage from fileName, creating an empty database file when
// none exists yet.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := initDBFile(fileName); err != nil {
			return nil, err
		}
		if err := parseJSONFile(db.fileName, &db.Cache); err != nil {
			return nil, err
		}
	}

	return &db, nil
}

// CreateUser appends a new user record, enforcing email uniqueness.
func (db *JSONDB) CreateUser(ctx context.Context, usr *user.User) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.Cache.Users {
		if existing.Email == usr.Email {
			return "", storage.ErrEmailTaken
		}
	}

	usr.ID = uuid.New().String()
	db.Cache.Users = append(db.Cache.Users, *usr)

	return usr.ID, nil
}

// FindUserByEmail returns the user with the exact email, or storage.ErrNotFound.
func (db *JSONDB) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if usr.Email == email {
			found := usr
			return &found, nil
		}
	}

	return nil, storage.ErrNotFound
}

// FindUserByID returns the user with the given id, or storage.ErrNotFound.
func (db *JSONDB) FindUserByID(ctx context.Context, userID string) (*user.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if usr.ID == userID {
			found := usr
			return &found, nil
		}
	}

	return nil, storage.ErrNotFound
}

// CreateItem appends a new item record with a generated id.
func (db *JSONDB) CreateItem(ctx context.Context, itm *item.Item) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	itm.ID = uuid.New().String()
	db.Cache.Items = append(db.Cache.Items, *itm)

	return itm.ID, nil
}

// FindItem returns the item with the given id, or storage.ErrNotFound.
func (db *JSONDB) FindItem(ctx context.Context, itemID string) (*item.Item, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, itm := range db.Cache.Items {
		if itm.ID == itemID {
			found := itm
			return &found, nil
		}
	}

	return nil, storage.ErrNotFound
}

// ListItems returns the owner's items in insertion order.
func (db *JSONDB) ListItems(ctx context.Context, ownerID string) ([]item.Item, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	owned := funk.Filter(db.Cache.Items, func(itm item.Item) bool {
		return itm.OwnerID == ownerID
	}).([]item.Item)

	return owned, nil
}

// UpdateItem replaces the stored record having itm.ID.
func (db *JSONDB) UpdateItem(ctx context.Context, itm *item.Item) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.Cache.Items {
		if existing.ID == itm.ID {
			db.Cache.Items[i] = *itm
			return nil
		}
	}

	return storage.ErrNotFound
}

// DeleteItem removes the item with the given id.
func (db *JSONDB) DeleteItem(ctx context.Context, itemID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.Cache.Items {
		if existing.ID == itemID {
			db.Cache.Items = append(db.Cache.Items[:i], db.Cache.Items[i+1:]...)
			return nil
		}
	}

	return storage.ErrNotFound
}

// Ping always succeeds: the cache is local.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache back to the database file.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}
