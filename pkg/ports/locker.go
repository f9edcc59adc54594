package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// ClientLocker enforces one in-flight job per client.
// It can be backed by a single process or shared across replicas.
type ClientLocker interface {
	// TryLock marks key as busy without waiting.
	// Returns domain.ErrBusy when key is already held. The lock expires after ttl
	// so a crashed holder cannot block the client forever.
	// Returns an UnlockFunc that MUST be called to release the lock.
	TryLock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
