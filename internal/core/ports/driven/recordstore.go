package driven

import "context"

// RecordStore is a keyed blob store, the local analogue of browser storage.
// The local form backend keeps its whole collection under a single key.
type RecordStore interface {
	// Get returns the value stored under key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
