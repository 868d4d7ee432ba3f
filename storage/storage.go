// Package storage abstracts the persistence backends behind one contract.
// Domain repositories only see Store; each backend (Badger, MongoDB, the
// HTTP Data API) supplies an adapter.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get for absent keys, whatever the backend.
var ErrKeyNotFound = errors.New("storage: key not found")

// Record is one stored key/value pair.
type Record struct {
	Key   string
	Value []byte
}

// Store is the uniform persistence contract. Keys are namespaced strings
// ("user:", "msg:", "config:"); values are opaque bytes.
//
// List must return records in ascending lexicographic key order — the
// message layer relies on it for chronological ordering. DeleteKeys
// tolerates keys that are already gone.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Record, error)
	DeleteKeys(ctx context.Context, keys []string) error
	Close() error
}
