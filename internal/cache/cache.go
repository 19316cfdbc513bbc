// Package cache provides the process-wide artifact cache. Entries map an
// (operation, fingerprint) pair to a previously generated artifact and stay
// visible for one TTL window.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the artifact reuse window.
const DefaultTTL = time.Hour

type key struct {
	op          string
	fingerprint string
}

type entry struct {
	artifact  string
	createdAt time.Time
}

// ArtifactCache is a TTL key-value store safe for concurrent use by multiple
// sessions. Construct one instance at process start and inject it; tests build
// isolated instances.
type ArtifactCache struct {
	mu      sync.RWMutex
	entries map[key]entry
	ttl     time.Duration
	group   singleflight.Group
}

// New creates an empty cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *ArtifactCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ArtifactCache{
		entries: make(map[key]entry),
		ttl:     ttl,
	}
}

// Get returns the cached artifact for (op, fingerprint) if a fresh entry
// exists. Stale entries are evicted lazily.
func (c *ArtifactCache) Get(op, fingerprint string) (string, bool) {
	k := key{op: op, fingerprint: fingerprint}
	now := time.Now()

	c.mu.RLock()
	ent, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if now.Sub(ent.createdAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed it.
		if cur, ok := c.entries[k]; ok && now.Sub(cur.createdAt) >= c.ttl {
			delete(c.entries, k)
		}
		c.mu.Unlock()
		return "", false
	}
	return ent.artifact, true
}

// Put stores an artifact for (op, fingerprint), overwriting any existing entry
// with a fresh timestamp.
func (c *ArtifactCache) Put(op, fingerprint, artifact string) {
	c.mu.Lock()
	c.entries[key{op: op, fingerprint: fingerprint}] = entry{
		artifact:  artifact,
		createdAt: time.Now(),
	}
	c.mu.Unlock()
}

// GetOrCompute returns the fresh cached artifact for (op, fingerprint) or runs
// compute to produce and store one. Concurrent callers for the same key share
// a single in-flight computation; errors are returned to every waiter and
// never cached.
func (c *ArtifactCache) GetOrCompute(op, fingerprint string, compute func() (string, error)) (string, error) {
	if artifact, ok := c.Get(op, fingerprint); ok {
		return artifact, nil
	}
	v, err, _ := c.group.Do(op+"\x00"+fingerprint, func() (any, error) {
		// A waiter may arrive after the winner already stored the value.
		if artifact, ok := c.Get(op, fingerprint); ok {
			return artifact, nil
		}
		artifact, err := compute()
		if err != nil {
			return "", err
		}
		c.Put(op, fingerprint, artifact)
		return artifact, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Clear purges all entries.
func (c *ArtifactCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[key]entry)
	c.mu.Unlock()
}

// ClearFingerprint purges that document's entries across all operation kinds.
func (c *ArtifactCache) ClearFingerprint(fingerprint string) {
	c.mu.Lock()
	for k := range c.entries {
		if k.fingerprint == fingerprint {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// Len reports the number of stored entries, including any not yet lazily
// evicted.
func (c *ArtifactCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
