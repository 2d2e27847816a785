package storage

import (
	"context"
	"io"
)

// Storage is the blob storage backend for branch photos.
// Intentionally small: save a file, delete it, resolve its public URL.
type Storage interface {
	// Save stores a file at the given key.
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by key. Returns nil if the file does not exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored key.
	GetURL(key string) string
}
