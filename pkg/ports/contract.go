package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/randomart/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunArtCacheContract runs a suite of tests to verify that an ArtCache implementation
// adheres to the defined interface contract.
func RunArtCacheContract(t *testing.T, cache ArtCache) {
	ctx := context.Background()
	key := domain.ArtKey("contract-"+time.Now().Format("20060102150405"), 5, 128)
	png := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, png)
		require.NoError(t, err, "Set should not return error")

		got, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, png, got)
	})

	t.Run("Stored bytes are isolated", func(t *testing.T) {
		data := []byte("abc")
		require.NoError(t, cache.Set(ctx, key+":iso", data))
		data[0] = 'z'

		got, err := cache.Get(ctx, key+":iso")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
		_ = cache.Delete(ctx, key+":iso")
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, png))

		err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+":1", key+":2"
		_ = cache.Set(ctx, k1, png)
		_ = cache.Set(ctx, k2, png)
		defer func() {
			_ = cache.Delete(ctx, k1)
			_ = cache.Delete(ctx, k2)
		}()

		keys, err := cache.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// RunClientLockerContract verifies the busy semantics of a ClientLocker.
func RunClientLockerContract(t *testing.T, locker ClientLocker) {
	ctx := context.Background()
	client := "client-" + time.Now().Format("150405.000000")

	t.Run("Second lock is busy", func(t *testing.T) {
		unlock, err := locker.TryLock(ctx, client, time.Minute)
		require.NoError(t, err)
		require.NotNil(t, unlock)

		_, err = locker.TryLock(ctx, client, time.Minute)
		assert.ErrorIs(t, err, domain.ErrBusy)

		require.NoError(t, unlock(ctx))

		again, err := locker.TryLock(ctx, client, time.Minute)
		require.NoError(t, err, "lock should be free after unlock")
		require.NoError(t, again(ctx))
	})

	t.Run("Clients are independent", func(t *testing.T) {
		a, err := locker.TryLock(ctx, client+"-a", time.Minute)
		require.NoError(t, err)
		b, err := locker.TryLock(ctx, client+"-b", time.Minute)
		require.NoError(t, err)
		assert.NoError(t, a(ctx))
		assert.NoError(t, b(ctx))
	})
}
