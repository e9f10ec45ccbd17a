package media

import (
	"context"
	"io"
)

// Storage is implemented by LocalStorage and S3Storage.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	URL(key string) string
}
