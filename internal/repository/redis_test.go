package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenStore(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	store := NewRedisTokenStore(client)
	ctx := context.Background()

	t.Run("RevokeAndCheck", func(t *testing.T) {
		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)

		require.NoError(t, store.RevokeToken(ctx, "jti-1", time.Minute))

		revoked, err = store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		s.FastForward(time.Minute + time.Millisecond)
		revoked, err = store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked, "revocation expires with the token")
	})

	t.Run("RevokeExpiredIsNoop", func(t *testing.T) {
		require.NoError(t, store.RevokeToken(ctx, "jti-2", 0))
		assert.False(t, s.Exists(revokedPrefix+"jti-2"))
	})

	t.Run("RateLimit", func(t *testing.T) {
		key := "login:a@example.com"
		limit := 2
		window := time.Second

		allowed, err := store.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = store.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = store.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = store.CheckRateLimit(ctx, key, limit, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		store := NewRedisTokenStore(nil)
		_, err := store.IsRevoked(ctx, "x")
		assert.ErrorContains(t, err, "redis client is nil")
	})

	t.Run("Connect", func(t *testing.T) {
		assert.NoError(t, Connect(ctx, client, DefaultDialPolicy))
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, Close(client))
		assert.NoError(t, Close(nil))
	})
}

func TestConnect_Unreachable(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	addr := s.Addr()
	s.Close()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	policy := DialPolicy{Attempts: 2, Wait: time.Millisecond}
	assert.Error(t, Connect(context.Background(), client, policy))
}

func TestDialPolicy_Wait(t *testing.T) {
	p := DialPolicy{Wait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond}

	assert.Equal(t, 100*time.Millisecond, p.wait(0))
	assert.Equal(t, 100*time.Millisecond, p.wait(1))
	assert.Equal(t, 200*time.Millisecond, p.wait(2))
	assert.Equal(t, 300*time.Millisecond, p.wait(3), "capped")
	assert.Equal(t, 300*time.Millisecond, p.wait(10))
	assert.Equal(t, time.Second, DialPolicy{}.wait(1))
}
