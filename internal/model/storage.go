package model

import (
	"context"
	"io"
)

// Storage is a flat key/value blob store used for product images.
// Download and Delete of a missing key return ErrNotFound.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
