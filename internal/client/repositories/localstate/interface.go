// Package localstate persists the client's durable local state outside the
// vault folder: the session token slot, its signing secret, the folder
// binding registry entry, and UI preferences. It is a generic key/value
// store; callers own the key namespace.
package localstate

import "context"

type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// SetMany inserts or overwrites every pair in kv. Either all writes
	// become visible or none do.
	SetMany(ctx context.Context, kv map[string][]byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all pairs.
	List(ctx context.Context) (map[string][]byte, error)

	// Clear removes every pair.
	Clear(ctx context.Context) error
}
