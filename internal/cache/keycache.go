package cache

import (
	"context"
	"sync"
	"time"
)

// KeyCache holds the decrypted plugin API key in process memory so the
// at-rest ciphertext is only decrypted once per TTL window. The populate
// function is injected so tests can supply a fixed key and deployments can
// scope one cache per server instance.
type KeyCache struct {
	mu       sync.Mutex
	value    string
	expires  time.Time
	ttl      time.Duration
	populate func(ctx context.Context) (string, error)
}

// NewKeyCache builds a cache around populate with the given TTL.
func NewKeyCache(ttl time.Duration, populate func(ctx context.Context) (string, error)) *KeyCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &KeyCache{ttl: ttl, populate: populate}
}

// Get returns the cached key, repopulating when the TTL has lapsed. A
// failed populate leaves any previously cached value expired rather than
// serving it stale.
func (c *KeyCache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value != "" && time.Now().Before(c.expires) {
		return c.value, nil
	}

	value, err := c.populate(ctx)
	if err != nil {
		return "", err
	}
	c.value = value
	c.expires = time.Now().Add(c.ttl)
	return value, nil
}

// Invalidate drops the cached value so the next Get repopulates.
func (c *KeyCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = ""
	c.expires = time.Time{}
}
