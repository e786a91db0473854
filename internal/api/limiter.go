package api

import (
	"sync"

	"servicefinder/internal/config"

	"golang.org/x/time/rate"
)

const defaultBurst = 5

// rateLimiter keeps one token bucket per caller key ("user:<id>" or
// "ip:<addr>"). A nil limiter allows everything.
type rateLimiter struct {
	buckets sync.Map
	limit   rate.Limit
	burst   int
}

func newRateLimiter(cfg config.RateLimitConfig) *rateLimiter {
	if cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	return &rateLimiter{limit: rate.Limit(cfg.RPS), burst: burst}
}

func (l *rateLimiter) allow(key string) bool {
	if l == nil {
		return true
	}
	v, ok := l.buckets.Load(key)
	if !ok {
		v, _ = l.buckets.LoadOrStore(key, rate.NewLimiter(l.limit, l.burst))
	}
	return v.(*rate.Limiter).Allow()
}
