package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLimiter(t *testing.T, cfg Config) *SlidingWindow {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	prefix := "test:ratelimit:" + t.Name() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return NewSlidingWindow(client, cfg, prefix)
}

func TestDefaultAuthConfig(t *testing.T) {
	cfg := DefaultAuthConfig()
	assert.Equal(t, 10, cfg.Requests)
	assert.Equal(t, time.Minute, cfg.Window)
}

func TestSlidingWindow_Allow(t *testing.T) {
	limiter := setupTestLimiter(t, Config{Requests: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, res.RetryAfter, time.Minute)

	other, err := limiter.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
}

func TestSlidingWindow_WindowSlides(t *testing.T) {
	limiter := setupTestLimiter(t, Config{Requests: 2, Window: 200 * time.Millisecond})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	time.Sleep(300 * time.Millisecond)

	res, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
