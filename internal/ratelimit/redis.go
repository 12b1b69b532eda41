package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript implements check-then-increment atomically on the Redis side:
// a counter at its limit is never incremented, and a freshly created
// counter expires with its window.
var incrScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return 0
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return 1
`)

// redisStore shares counters across instances through Redis. Connection
// failures are returned to the Limiter, which applies the configured
// fail-open or fail-closed policy; the store never blocks startup on an
// unreachable server.
type redisStore struct {
	client *redis.Client
}

// NewRedis builds a Store from a redis:// connection URI.
func NewRedis(uri string) (Store, error) {
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit backend URI: %w", err)
	}
	return &redisStore{client: redis.NewClient(opt)}, nil
}

func (s *redisStore) Incr(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}

	res, err := incrScript.Run(ctx, s.client, []string{key}, limit, secs).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return res == 1, nil
}
