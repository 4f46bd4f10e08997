package tolet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter throttles failed logins per client key. Check does not count an
// attempt; call Record after a failure.
type Limiter interface {
	Check(ctx context.Context, key string) (bool, error)
	Record(ctx context.Context, key string) error
}

// LoginLimiter rate-limits login attempts per IP address in process memory.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	done     chan struct{}
	once     sync.Once
}

// NewLoginLimiter creates a LoginLimiter that allows max attempts per window.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for ip := range l.attempts {
				if len(l.prune(ip)) == 0 {
					delete(l.attempts, ip)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

// prune drops hits older than the window. The caller holds mu.
func (l *LoginLimiter) prune(ip string) []time.Time {
	cutoff := time.Now().Add(-l.window)
	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.attempts[ip] = kept
	return kept
}

// Check reports whether the IP is still under the limit.
func (l *LoginLimiter) Check(_ context.Context, ip string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(ip)) < l.max, nil
}

// Record registers a failed login attempt for the given IP.
func (l *LoginLimiter) Record(_ context.Context, ip string) error {
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], time.Now())
	l.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine.
func (l *LoginLimiter) Close() {
	l.once.Do(func() { close(l.done) })
}

var recordScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// DefaultLimiterPrefix namespaces limiter keys in Redis.
const DefaultLimiterPrefix = "tolet:login"

// RedisLimiter counts failed logins in fixed windows shared by every
// replica.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter allows max failures per key per window.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: DefaultLimiterPrefix,
		max:    max,
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) key(k string) string {
	k = strings.TrimSpace(k)
	if k == "" {
		k = "unknown"
	}
	slot := l.now().UTC().UnixMilli() / l.window.Milliseconds()
	return fmt.Sprintf("%s:%s:%d", l.prefix, k, slot)
}

// Check reads the current window's count. Redis failures fail closed.
func (l *RedisLimiter) Check(ctx context.Context, k string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(k)).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read login count: %w", err)
	}
	return n < l.max, nil
}

// Record counts one failure in the current window.
func (l *RedisLimiter) Record(ctx context.Context, k string) error {
	if err := recordScript.Run(ctx, l.client, []string{l.key(k)}, l.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}
