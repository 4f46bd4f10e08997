package tolet

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordFailures(t *testing.T, l Limiter, key string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, l.Record(context.Background(), key))
	}
}

func allowed(t *testing.T, l Limiter, key string) bool {
	t.Helper()
	ok, err := l.Check(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	t.Cleanup(limiter.Close)
	ip := "203.0.113.10"

	assert.True(t, allowed(t, limiter, ip))
	recordFailures(t, limiter, ip, 1)
	assert.True(t, allowed(t, limiter, ip), "one failure is under the limit")
	recordFailures(t, limiter, ip, 1)
	assert.False(t, allowed(t, limiter, ip))
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	t.Cleanup(limiter.Close)
	ip := "203.0.113.20"

	recordFailures(t, limiter, ip, 1)
	assert.False(t, allowed(t, limiter, ip))

	time.Sleep(200 * time.Millisecond)
	assert.True(t, allowed(t, limiter, ip), "attempt after window should be allowed")
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, 200*time.Millisecond)
	t.Cleanup(limiter.Close)

	recordFailures(t, limiter, "203.0.113.30", 1)
	assert.True(t, allowed(t, limiter, "203.0.113.31"))
	assert.False(t, allowed(t, limiter, "203.0.113.30"))
}

func newRedisLimiter(t *testing.T, max int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRedisLimiter(client, max, time.Minute)
	l.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 30, 0, time.UTC) }
	return l, mr
}

func TestRedisLimiterBlocksAfterMax(t *testing.T) {
	l, mr := newRedisLimiter(t, 2)

	assert.True(t, allowed(t, l, "203.0.113.10"))
	recordFailures(t, l, "203.0.113.10", 2)
	assert.False(t, allowed(t, l, "203.0.113.10"))
	assert.True(t, allowed(t, l, "203.0.113.11"))

	key := l.key("203.0.113.10")
	assert.True(t, mr.Exists(key))
	assert.Greater(t, mr.TTL(key), time.Duration(0), "window key must expire")
}

func TestRedisLimiterNewWindowStartsClean(t *testing.T) {
	l, _ := newRedisLimiter(t, 1)

	recordFailures(t, l, "203.0.113.40", 1)
	assert.False(t, allowed(t, l, "203.0.113.40"))

	l.now = func() time.Time { return time.Date(2026, 1, 1, 12, 1, 30, 0, time.UTC) }
	assert.True(t, allowed(t, l, "203.0.113.40"))
}

func TestRedisLimiterFailsClosed(t *testing.T) {
	l, mr := newRedisLimiter(t, 5)
	mr.Close()

	ok, err := l.Check(context.Background(), "203.0.113.50")
	assert.Error(t, err)
	assert.False(t, ok)
}
