package kv

import "context"

// Store is the persistence gateway used by the entitlement and trial
// services. Values are implementation-neutral encoded text; typed helpers
// exist because the engine stores flags and counters alongside JSON records.
//
// The engine owns the keys it writes exclusively. Implementations must return
// ErrKeyNotFound for missing keys so callers can distinguish "absent" from a
// real I/O failure.
type Store interface {
	// Get retrieves the string value stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// GetBool retrieves a boolean value stored under key.
	GetBool(ctx context.Context, key string) (bool, error)

	// SetBool stores a boolean value under key.
	SetBool(ctx context.Context, key string, value bool) error

	// GetInt retrieves an integer value stored under key.
	GetInt(ctx context.Context, key string) (int64, error)

	// SetInt stores an integer value under key.
	SetInt(ctx context.Context, key string, value int64) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
