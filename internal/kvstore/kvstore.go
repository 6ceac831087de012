// Package kvstore provides the namespaced key-value store every service
// persists into. Records are JSON documents; the catalog is simply "every
// entry whose key carries the namespace prefix".
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get for absent keys.
var ErrNotFound = errors.New("key not found")

// Entry is one key-value pair from a prefix scan.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Store is the minimal surface the services need. Iteration order of
// GetByPrefix is driver-defined; callers that need ordering sort themselves.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}
