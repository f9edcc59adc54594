package ports

import "context"

// ArtCache defines how rendered images are kept between requests.
type ArtCache interface {
	// Get returns the cached bytes for key.
	// Returns domain.ErrCacheMiss if nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys currently cached.
	List(ctx context.Context) ([]string, error)
}
