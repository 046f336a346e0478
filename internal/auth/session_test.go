package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tghbhs/science-carnival/backend/internal/auth"
)

func TestMemorySessions(t *testing.T) {
	ctx := context.Background()

	t.Run("create then get returns user id", func(t *testing.T) {
		sessions := auth.NewMemorySessions(time.Hour)

		sid, err := sessions.Create(ctx, 42)
		require.NoError(t, err)
		require.NotEmpty(t, sid)

		userID, err := sessions.Get(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("unknown session id resolves to no session", func(t *testing.T) {
		sessions := auth.NewMemorySessions(time.Hour)

		userID, err := sessions.Get(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Zero(t, userID)
	})

	t.Run("delete invalidates the session", func(t *testing.T) {
		sessions := auth.NewMemorySessions(time.Hour)

		sid, err := sessions.Create(ctx, 7)
		require.NoError(t, err)
		require.NoError(t, sessions.Delete(ctx, sid))

		userID, err := sessions.Get(ctx, sid)
		require.NoError(t, err)
		assert.Zero(t, userID)
	})

	t.Run("expired session resolves to no session", func(t *testing.T) {
		sessions := auth.NewMemorySessions(-time.Second)

		sid, err := sessions.Create(ctx, 7)
		require.NoError(t, err)

		userID, err := sessions.Get(ctx, sid)
		require.NoError(t, err)
		assert.Zero(t, userID)
	})

	t.Run("zero ttl falls back to the default", func(t *testing.T) {
		sessions := auth.NewMemorySessions(0)
		assert.Equal(t, auth.DefaultSessionTTL, sessions.TTL())
	})

	t.Run("session ids are unique", func(t *testing.T) {
		sessions := auth.NewMemorySessions(time.Hour)

		sid1, err := sessions.Create(ctx, 1)
		require.NoError(t, err)
		sid2, err := sessions.Create(ctx, 1)
		require.NoError(t, err)
		assert.NotEqual(t, sid1, sid2)
	})
}
