// Package registry holds the user keyed lookup tables for open tickets and pending submissions.
package registry

import "context"

// Store is a key value store keyed by discord user ID.
type Store[V any] interface {
	// Get returns the value for the key and whether it was present.
	Get(ctx context.Context, key string) (V, bool, error)

	// Set stores the value, replacing anything already held for the key.
	Set(ctx context.Context, key string, v V) error

	// Add stores the value only if nothing is held for the key. It reports whether the value was stored.
	Add(ctx context.Context, key string, v V) (bool, error)

	// Update replaces the value held for the key with fn's result in one atomic step. fn is not called and
	// nothing is written when the key is missing. It returns the stored result and whether the key was present.
	// fn may run more than once when another writer races the update, so it must not have side effects.
	Update(ctx context.Context, key string, fn func(V) V) (V, bool, error)

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Has reports whether the key is present.
	Has(ctx context.Context, key string) (bool, error)
}

// Cloner is implemented by values holding slices or maps. Memory stores and hands out clones of them, so a
// caller never shares a value with the store or another caller.
type Cloner[V any] interface {
	Clone() V
}

var (
	_ Store[struct{}] = (*Memory[struct{}])(nil)
	_ Store[struct{}] = (*Redis[struct{}])(nil)
)
