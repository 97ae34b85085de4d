package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ticketly:ratelimit"

// Limiter implements a fixed-window counter backed by Redis. Counters live in
// Redis so the limit holds across replicas.
type Limiter struct {
	client *redis.Client
	window time.Duration
}

// Result reports the outcome of one Allow check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

func NewLimiter(client *redis.Client, window time.Duration) *Limiter {
	return &Limiter{client: client, window: window}
}

// Allow counts one request against the identity/class pair and reports
// whether it fits inside the current window.
func (l *Limiter) Allow(ctx context.Context, identity, class string, limit int) (*Result, error) {
	windowStart := time.Now().Unix() / int64(l.window.Seconds())
	key := fmt.Sprintf("%s:%s:%s:%d", keyPrefix, class, identity, windowStart)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	result := &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: limit - count,
	}
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	if !result.Allowed {
		elapsed := time.Now().Unix() % int64(l.window.Seconds())
		result.RetryAfter = l.window - time.Duration(elapsed)*time.Second
	}
	return result, nil
}
