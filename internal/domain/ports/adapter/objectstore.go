package adapter

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the hot storage tier holding inputs and active results.
type ObjectStore interface {
	// Download fetches an object into a local file.
	Download(ctx context.Context, bucket, key, path string) error
	// Upload stores a local file as an object.
	Upload(ctx context.Context, path, bucket, key string) error
	// GetObject reads an object fully into memory.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	// PutObject writes an object from a stream.
	PutObject(ctx context.Context, bucket, key string, body io.Reader) error
	Delete(ctx context.Context, bucket, key string) error
	// PresignGet returns a time-limited download URL for the web layer.
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
