package auth

import (
	"context"
	"testing"
	"time"

	"backend_customerpro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	token, err := store.Create(ctx, Session{
		UserID:    7,
		Username:  "paul",
		Role:      models.RoleField,
		ExpiresAt: time.Now().Add(SessionLifetime),
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, ok := store.Get(ctx, token)
	require.True(t, ok)
	assert.Equal(t, uint(7), session.UserID)
	assert.Equal(t, "paul", session.Username)

	identity := session.Identity()
	assert.Equal(t, uint(7), identity.UserID)
	assert.Equal(t, models.RoleField, identity.Role)

	store.Delete(ctx, token)
	_, ok = store.Get(ctx, token)
	assert.False(t, ok)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	token, err := store.Create(ctx, Session{
		UserID:    7,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	// An expired session is treated as absent, not as an error.
	_, ok := store.Get(ctx, token)
	assert.False(t, ok)
}

func TestMemorySessionStoreDeleteExpired(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	expired, err := store.Create(ctx, Session{UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	live, err := store.Create(ctx, Session{UserID: 2, ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	store.DeleteExpired(ctx)

	store.mu.RLock()
	_, expiredStillThere := store.sessions[expired]
	_, liveStillThere := store.sessions[live]
	store.mu.RUnlock()

	assert.False(t, expiredStillThere)
	assert.True(t, liveStillThere)
}

func TestUnknownTokenIsAnonymous(t *testing.T) {
	store := NewMemorySessionStore()
	_, ok := store.Get(context.Background(), "no-such-token")
	assert.False(t, ok)
}
