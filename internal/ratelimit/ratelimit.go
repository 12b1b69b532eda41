package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Package ratelimit implements fixed-window request counting: each
// (client, route, window) triple owns a counter that resets when the
// window index floor(now/window) rolls over. The backing Store is
// pluggable so a single process can count in memory while a multi-instance
// deployment shares counters through Redis.

// Limit is one fixed-window allowance, e.g. 5 requests per minute.
type Limit struct {
	Max    int
	Window time.Duration
}

// PerMinute, PerHour and PerDay build the window shapes used by the
// service configuration.
func PerMinute(n int) Limit { return Limit{Max: n, Window: time.Minute} }
func PerHour(n int) Limit   { return Limit{Max: n, Window: time.Hour} }
func PerDay(n int) Limit    { return Limit{Max: n, Window: 24 * time.Hour} }

// Store is a counter backend. Incr must be atomic with respect to
// concurrent callers for the same key: it increments the counter unless
// doing so would exceed limit, in which case the counter is left unchanged
// and false is returned.
type Store interface {
	Incr(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Limiter evaluates a request against one or more fixed-window limits.
type Limiter struct {
	store    Store
	failOpen bool
	now      func() time.Time
}

// New builds a Limiter. failOpen selects the fallback policy when the
// backing store is unreachable: true admits the request to preserve
// availability, false rejects it to preserve the limit's guarantee.
func New(store Store, failOpen bool) *Limiter {
	return &Limiter{store: store, failOpen: failOpen, now: time.Now}
}

// Allow reports whether the client may proceed on the given route. The
// request passes only if every limit admits it. Limits with Max <= 0 are
// disabled.
func (l *Limiter) Allow(ctx context.Context, clientKey, route string, limits ...Limit) bool {
	now := l.now()
	for _, lim := range limits {
		if lim.Max <= 0 {
			continue
		}

		secs := int64(lim.Window / time.Second)
		if secs < 1 {
			secs = 1
		}
		idx := now.Unix() / secs
		key := fmt.Sprintf("rl:%s:%s:%d:%d", route, clientKey, secs, idx)

		ok, err := l.store.Incr(ctx, key, lim.Max, lim.Window)
		if err != nil {
			log.Printf("rate limit store unavailable (fail-open=%t): %v", l.failOpen, err)
			if l.failOpen {
				continue
			}
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}
