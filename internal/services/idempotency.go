package services

import (
	"context"
	"sync"
	"time"
)

type idemKey struct {
	client string
	key    string
}

type idemEntry struct {
	shareID string
	expires time.Time
}

// keyLock serializes writes for one (client, key) pair. refs counts holders
// and waiters so the lock can be dropped once nobody needs it.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// idempotencyCache remembers which share a (client, Idempotency-Key) pair
// produced. Expired entries are dropped lazily on access and on remember.
// mu guards entries and locks only; it is never held across a store call.
type idempotencyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[idemKey]idemEntry
	locks   map[idemKey]*keyLock
}

func newIdempotencyCache(ttl time.Duration) *idempotencyCache {
	return &idempotencyCache{
		ttl:     ttl,
		entries: make(map[idemKey]idemEntry),
		locks:   make(map[idemKey]*keyLock),
	}
}

// lockKey blocks until the caller owns k and returns the release func.
// Different keys never wait on each other.
func (c *idempotencyCache) lockKey(k idemKey) func() {
	c.mu.Lock()
	l := c.locks[k]
	if l == nil {
		l = &keyLock{}
		c.locks[k] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(c.locks, k)
		}
		c.mu.Unlock()
	}
}

func (c *idempotencyCache) lookup(k idemKey, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(k, now)
}

func (c *idempotencyCache) remember(k idemKey, shareID string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rememberLocked(k, shareID, now)
}

// pendingKeys reports how many per-key locks are live.
func (c *idempotencyCache) pendingKeys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.locks)
}

// lookupLocked returns the remembered share id; callers hold c.mu.
func (c *idempotencyCache) lookupLocked(k idemKey, now time.Time) (string, bool) {
	e, ok := c.entries[k]
	if !ok {
		return "", false
	}
	if !now.Before(e.expires) {
		delete(c.entries, k)
		return "", false
	}
	return e.shareID, true
}

// rememberLocked stores k -> shareID; callers hold c.mu.
func (c *idempotencyCache) rememberLocked(k idemKey, shareID string, now time.Time) {
	for ek, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, ek)
		}
	}
	c.entries[k] = idemEntry{shareID: shareID, expires: now.Add(c.ttl)}
}

// SeenIdempotencyKey reports whether a share write with this client and key
// completed within the idempotency window. It satisfies the middleware's
// lookup signature.
func (s *ShareService) SeenIdempotencyKey(_ context.Context, client, key string, now time.Time) (bool, error) {
	if key == "" || s.idem == nil {
		return false, nil
	}
	_, ok := s.idem.lookup(idemKey{client: client, key: key}, now)
	return ok, nil
}
