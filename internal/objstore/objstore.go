// Package objstore abstracts the blob storage holding uploaded images.
package objstore

import (
	"context"
	"io"
	"time"
)

// Store is the object-storage surface the gallery needs. SignedURL issues a
// time-limited download link; once the window lapses the link goes stale
// even though the image metadata persists.
type Store interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}
