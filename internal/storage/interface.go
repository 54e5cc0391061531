package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the object storage operations the pipeline needs:
// write-once uploads that yield a publicly resolvable URL.
type ObjectStorage interface {
	// Upload writes an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// GetURL returns the public URL for accessing an object
	GetURL(key string) string

	// EnsureBucket creates the bucket if it doesn't exist
	EnsureBucket(ctx context.Context) error
}
