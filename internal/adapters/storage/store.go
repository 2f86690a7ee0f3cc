// Package storage defines the blob store contract the service uses to
// keep uploaded datasets, and a filesystem implementation of it.
package storage

import "context"

// Store provides named blob persistence. Implementations must be safe
// for concurrent use.
type Store interface {
	// Put persists data under name, overwriting any existing blob, and
	// returns the stored name.
	Put(ctx context.Context, name string, data []byte) (string, error)

	// Get returns the blob stored under name.
	// Returns ErrNotFound if no such blob exists.
	Get(ctx context.Context, name string) ([]byte, error)
}
