// Package storage persists uploaded recipe images on S3-compatible object
// storage or on local disk and turns stored keys into public URLs.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/pageza/foodgram/backend/config"
)

// ImageStore is the contract the recipe service depends on.
type ImageStore interface {
	// Save stores the content under key and returns its public URL.
	// size is the content length in bytes, or -1 if unknown.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// KeyFromURL reverses Save's URL. ok is false for URLs this store did not produce.
	KeyFromURL(url string) (key string, ok bool)
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(ctx, cfg.S3)
	case "local":
		return NewLocalStore(cfg.Local)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
