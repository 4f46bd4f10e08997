package tolet

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/tolet/api"
)

// listingEntry is one visitor's fetched property collection.
type listingEntry struct {
	props   []api.Property
	owned   map[string]bool
	fetched time.Time
}

// ListingCache holds each visitor's property list with a TTL, so switching
// the sort order re-sorts without another fetch.
type ListingCache struct {
	mu      sync.RWMutex
	entries map[string]*listingEntry
	ttl     time.Duration
	client  *api.Client
	logger  *slog.Logger
	now     func() time.Time
}

// NewListingCache creates a ListingCache backed by the given client.
func NewListingCache(client *api.Client, ttl time.Duration, logger *slog.Logger) *ListingCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingCache{
		entries: make(map[string]*listingEntry),
		ttl:     ttl,
		client:  client,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *ListingCache) valid(e *listingEntry) bool {
	return e != nil && c.now().Sub(e.fetched) < c.ttl
}

// Cached returns the held collection for sid when still fresh.
func (c *ListingCache) Cached(sid string) ([]api.Property, map[string]bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e := c.entries[sid]
	if !c.valid(e) {
		return nil, nil, false
	}
	return e.props, e.owned, true
}

// Fetch loads every listing and, when token is set, the ids the visitor
// owns, both at once. The result replaces whatever sid held. Losing the
// owned ids only hides the owner actions, so that failure is logged and
// the list still shows; a 401 is returned so the session gets cleared.
func (c *ListingCache) Fetch(ctx context.Context, sid, token string) ([]api.Property, map[string]bool, error) {
	var props []api.Property
	owned := map[string]bool{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		props, err = c.client.ListProperties(gctx)
		return err
	})
	if token != "" {
		g.Go(func() error {
			mine, err := c.client.ListUserProperties(gctx, token)
			if api.IsAuth(err) {
				return err
			}
			if err != nil {
				c.logger.Warn("list own properties", "error", err)
				return nil
			}
			for _, p := range mine {
				owned[p.ID] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	c.entries[sid] = &listingEntry{props: props, owned: owned, fetched: c.now()}
	c.mu.Unlock()
	return props, owned, nil
}

// Load returns the held collection when reuse is allowed and fresh, and
// fetches otherwise.
func (c *ListingCache) Load(ctx context.Context, sid, token string, reuse bool) ([]api.Property, map[string]bool, error) {
	if reuse {
		if props, owned, ok := c.Cached(sid); ok {
			return props, owned, nil
		}
	}
	return c.Fetch(ctx, sid, token)
}

// Invalidate clears sid's entry so the next read triggers a fresh load.
func (c *ListingCache) Invalidate(sid string) {
	c.mu.Lock()
	delete(c.entries, sid)
	c.mu.Unlock()
}

// Prune drops expired entries and reports how many went.
func (c *ListingCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for sid, e := range c.entries {
		if !c.valid(e) {
			delete(c.entries, sid)
			n++
		}
	}
	return n
}

// StartJanitor prunes every interval until the returned stop is called.
func (c *ListingCache) StartJanitor(interval time.Duration) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Prune()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
