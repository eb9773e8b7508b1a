package storage

import "context"

// System defines the blob store operations the catalog depends on.
// Implementations handle the underlying storage mechanism while providing
// a consistent API for storing and serving uploaded files.
type System interface {
	// Store saves data at the specified key. If the key already exists,
	// its contents are overwritten. Parent directories are created as needed.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete deletes the data at the specified key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists and is accessible.
	// Returns (false, nil) if the key does not exist and
	// (false, error) for permission or system errors.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public path the blob at key is served under.
	URL(key string) string
}
