package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRevokeIsPermanentWhileUnexpired(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	store := NewMemoryRevocationStore(codec)

	token, err := codec.Issue("a@x.com", "CLIENT")
	require.NoError(t, err)

	require.False(t, store.IsRevoked(token))
	store.Revoke(token)
	require.True(t, store.IsRevoked(token))

	// Idempotent.
	store.Revoke(token)
	require.True(t, store.IsRevoked(token))

	// Still revoked even though the token itself has not expired.
	require.False(t, codec.IsExpired(token))
	require.True(t, store.IsRevoked(token))
}

func TestRevokedEntriesEvictedAfterExpiry(t *testing.T) {
	issued := time.Now().UTC()
	codec := NewTokenCodec([]byte("test-secret"), time.Minute)
	codec.Now = func() time.Time { return issued }
	store := NewMemoryRevocationStore(codec)

	token, err := codec.Issue("a@x.com", "CLIENT")
	require.NoError(t, err)
	store.Revoke(token)
	require.True(t, store.IsRevoked(token))

	// The sweep runs on the next Revoke after the token's expiry passed. At
	// that point validation rejects the token on expiry alone.
	codec.Now = func() time.Time { return issued.Add(2 * time.Minute) }
	other, err := codec.Issue("b@x.com", "CLIENT")
	require.NoError(t, err)
	store.Revoke(other)

	require.False(t, store.IsRevoked(token))
	require.True(t, codec.IsExpired(token))
}

func TestUnparsableTokenKeptForever(t *testing.T) {
	issued := time.Now().UTC()
	codec := NewTokenCodec([]byte("test-secret"), time.Minute)
	codec.Now = func() time.Time { return issued }
	store := NewMemoryRevocationStore(codec)

	store.Revoke("opaque-garbage")

	codec.Now = func() time.Time { return issued.Add(24 * time.Hour) }
	fresh, err := codec.Issue("a@x.com", "CLIENT")
	require.NoError(t, err)
	store.Revoke(fresh)

	require.True(t, store.IsRevoked("opaque-garbage"))
}

func TestConcurrentRevokeAndCheck(t *testing.T) {
	codec := NewTokenCodec([]byte("test-secret"), time.Hour)
	store := NewMemoryRevocationStore(codec)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		token := fmt.Sprintf("token-%d", i)
		go func() {
			defer wg.Done()
			store.Revoke(token)
		}()
		go func() {
			defer wg.Done()
			store.IsRevoked(token)
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		require.True(t, store.IsRevoked(fmt.Sprintf("token-%d", i)))
	}
}
