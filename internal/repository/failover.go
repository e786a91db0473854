package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"servicefinder/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverTokenStore serves from primary until it errors, then from fallback,
// probing primary again once per recoveryInterval.
type FailoverTokenStore struct {
	primary  domain.TokenStore
	fallback domain.TokenStore
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverTokenStore(primary, fallback domain.TokenStore, logger *zerolog.Logger) *FailoverTokenStore {
	return &FailoverTokenStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// usePrimary reports whether the next call should try primary.
func (r *FailoverTokenStore) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastCheck) > recoveryInterval
}

func (r *FailoverTokenStore) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		if r.isDown.Swap(false) {
			r.logger.Info().Msg("Primary token store recovered")
		}
		return
	}
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary token store failed, falling back to memory")
	}
	r.lastCheck = time.Now()
}

func (r *FailoverTokenStore) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	// fallback always holds the revocation so it survives a later primary outage
	fallbackErr := r.fallback.RevokeToken(ctx, jti, ttl)
	if r.usePrimary() {
		err := r.primary.RevokeToken(ctx, jti, ttl)
		r.record(err)
		if err == nil {
			return nil
		}
	}
	return fallbackErr
}

func (r *FailoverTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r.usePrimary() {
		revoked, err := r.primary.IsRevoked(ctx, jti)
		r.record(err)
		if err == nil {
			return revoked, nil
		}
	}
	return r.fallback.IsRevoked(ctx, jti)
}

func (r *FailoverTokenStore) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, key, limit, window)
		r.record(err)
		if err == nil {
			return allowed, nil
		}
	}
	return r.fallback.CheckRateLimit(ctx, key, limit, window)
}
