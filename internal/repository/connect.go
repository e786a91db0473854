package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DialPolicy bounds how long startup waits for Redis before the token store
// falls back to memory.
type DialPolicy struct {
	Attempts int
	Wait     time.Duration
	MaxWait  time.Duration
}

var DefaultDialPolicy = DialPolicy{
	Attempts: 4,
	Wait:     200 * time.Millisecond,
	MaxWait:  2 * time.Second,
}

// wait returns the pause after the given failed attempt (1-based). It doubles
// per attempt and is capped by MaxWait.
func (p DialPolicy) wait(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := p.Wait
	if base <= 0 {
		base = time.Second
	}

	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxWait > 0 && d >= p.MaxWait {
			return p.MaxWait
		}
	}
	if p.MaxWait > 0 && d > p.MaxWait {
		d = p.MaxWait
	}
	return d
}

// Connect pings the client until it answers or the attempts run out.
func Connect(ctx context.Context, client *redis.Client, policy DialPolicy) error {
	attempts := max(policy.Attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = Ping(ctx, client); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(policy.wait(attempt)):
		}
	}
	return err
}
