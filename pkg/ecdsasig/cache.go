package ecdsasig

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

var _ Recoverer = (*CachedRecoverer)(nil)

type recoverKey [MessageLength + SignatureLength]byte

// CachedRecoverer memoizes successful recoveries in an LRU keyed by the
// message and signature bytes. Failures are not cached.
type CachedRecoverer struct {
	inner   Recoverer
	cache   *lru.Cache
	metrics *Metrics
}

// NewCachedRecoverer wraps inner with an LRU holding up to size entries.
func NewCachedRecoverer(inner Recoverer, size int) (*CachedRecoverer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create recovery cache: %w", err)
	}
	return &CachedRecoverer{inner: inner, cache: cache}, nil
}

// WithMetrics records cache hits and misses in m.
func (c *CachedRecoverer) WithMetrics(m *Metrics) *CachedRecoverer {
	c.metrics = m
	return c
}

// Recover implements Recoverer.
func (c *CachedRecoverer) Recover(sig Signature, msg Message) (PubKey, error) {
	var key recoverKey
	copy(key[:MessageLength], msg[:])
	copy(key[MessageLength:], sig[:])

	if cached, ok := c.cache.Get(key); ok {
		c.metrics.cacheHit()
		return cached.(PubKey), nil
	}
	c.metrics.cacheMiss()

	pub, err := c.inner.Recover(sig, msg)
	if err != nil {
		return PubKey{}, err
	}
	c.cache.Add(key, pub)
	return pub, nil
}

// Len returns the number of cached entries.
func (c *CachedRecoverer) Len() int {
	return c.cache.Len()
}
