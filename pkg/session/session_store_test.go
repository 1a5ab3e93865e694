package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRevokeUntilExpiry(t *testing.T) {
	store := NewMemoryStore().(*memoryStore)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "token-a", time.Minute))
	revoked, _ = store.IsRevoked(ctx, "token-a")
	assert.True(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "token-b")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = store.IsRevoked(ctx, "token-a")
	assert.False(t, revoked)
}

func TestMemoryStoreIgnoresExpiredTokens(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Revoke(context.Background(), "token-a", 0))

	revoked, _ := store.IsRevoked(context.Background(), "token-a")
	assert.False(t, revoked)
}

func TestMemoryStoreRevokeUser(t *testing.T) {
	store := NewMemoryStore().(*memoryStore)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.RevokeUser(ctx, "user-1", time.Hour))
	revoked, err := store.IsUserRevoked(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = store.IsUserRevoked(ctx, "user-2")
	assert.False(t, revoked)
	revoked, _ = store.IsRevoked(ctx, "user-1")
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = store.IsUserRevoked(ctx, "user-1")
	assert.False(t, revoked)
}

func TestTokenKeyHidesToken(t *testing.T) {
	key := tokenKey("secret-token")
	assert.NotContains(t, key, "secret-token")
	assert.Equal(t, key, tokenKey("secret-token"))
}
