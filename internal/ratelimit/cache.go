package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/classboard/gateway/internal/models"
)

// PolicySource loads every enabled rate-limit row in one query.
type PolicySource interface {
	ListEnabled(ctx context.Context) ([]models.RateLimitConfig, error)
}

// ConfigCache keeps a time-boxed snapshot of the enabled policies so the
// limiter does not hit the store on every request. The snapshot is replaced
// wholesale on refresh, never patched. The store fetch runs outside the lock
// and only one caller performs it at a time; everyone else resolves against
// the snapshot on hand (stale or hardcoded default) without blocking.
type ConfigCache struct {
	source       PolicySource
	ttl          time.Duration
	fetchTimeout time.Duration

	mu        sync.Mutex
	policies  map[string]Policy
	fetchedAt time.Time
	fetching  bool
	gen       uint64
}

type CacheOption func(*ConfigCache)

func WithTTL(d time.Duration) CacheOption {
	return func(c *ConfigCache) { c.ttl = d }
}

func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *ConfigCache) { c.fetchTimeout = d }
}

func NewConfigCache(source PolicySource, opts ...CacheOption) *ConfigCache {
	c := &ConfigCache{
		source:       source,
		ttl:          60 * time.Second,
		fetchTimeout: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get resolves the policy for a scope, loading the snapshot lazily when it is
// missing or older than the TTL. Resolution order: scope row, "global" row,
// hardcoded default. The returned error reports a failed fetch that left no
// snapshot to serve from; the accompanying policy is still usable. fetchedAt
// stays zero after a failure so the next call retries.
func (c *ConfigCache) Get(ctx context.Context, scope string) (Policy, error) {
	c.mu.Lock()
	stale := c.policies == nil || time.Since(c.fetchedAt) > c.ttl
	if !stale || c.fetching {
		// Fresh snapshot, or another caller is already refreshing.
		p := c.resolveLocked(scope)
		c.mu.Unlock()
		return p, nil
	}
	c.fetching = true
	gen := c.gen
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	configs, err := c.source.ListEnabled(fetchCtx)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false

	if gen != c.gen {
		// Invalidated while fetching; the rows may predate the mutation,
		// so don't install them.
		return c.resolveLocked(scope), err
	}

	if err != nil {
		p := c.resolveLocked(scope)
		if c.policies != nil {
			// A stale snapshot beats the hardcoded default; keep serving it.
			return p, nil
		}
		return p, err
	}

	fresh := make(map[string]Policy, len(configs))
	for _, cfg := range configs {
		fresh[cfg.Key] = Policy{
			Scope:       cfg.Key,
			WindowMs:    cfg.WindowMs,
			MaxRequests: cfg.MaxRequests,
		}
	}

	c.policies = fresh
	c.fetchedAt = time.Now()

	return c.resolveLocked(scope), nil
}

func (c *ConfigCache) resolveLocked(scope string) Policy {
	if p, ok := c.policies[scope]; ok {
		return p
	}

	if p, ok := c.policies[DefaultScope]; ok {
		p.Scope = scope
		return p
	}

	return defaultPolicy(scope)
}

// Invalidate drops the snapshot so the next Get fetches fresh rows. Called by
// the admin surface after every successful policy mutation.
func (c *ConfigCache) Invalidate() {
	c.mu.Lock()
	c.policies = nil
	c.fetchedAt = time.Time{}
	c.gen++
	c.mu.Unlock()
}
