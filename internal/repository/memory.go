package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore is the process-local fallback for RedisTokenStore.
type MemoryTokenStore struct {
	revoked    sync.Map
	rateLimits sync.Map
	mu         sync.Mutex
	now        func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{now: time.Now}
}

func (r *MemoryTokenStore) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.revoked.Store(jti, r.now().Add(ttl))
	return nil
}

func (r *MemoryTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	val, ok := r.revoked.Load(jti)
	if !ok {
		return false, nil
	}
	if r.now().After(val.(time.Time)) {
		r.revoked.Delete(jti)
		return false, nil
	}
	return true, nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryTokenStore) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	val, ok := r.rateLimits.Load(key)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(key, entry)
	return entry.count <= limit, nil
}
