// Package memorystorage provides an ephemeral storage backend used in test
// mode and as the fallback when no persistent backend is configured.
package memorystorage

import (
	"context"

	"github.com/dkolesni/itemstash/internal/db/jsondb"
)

// MemoryStorage reuses the jsondb cache and record logic without the file
// persistence.
type MemoryStorage struct {
	*jsondb.JSONDB
}

// New returns an empty in-memory storage.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{},
		},
	}, nil
}

// Close is a no-op: there is nothing to flush.
func (theStorage *MemoryStorage) Close() error {
	return nil
}

// Ping always succeeds.
func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
