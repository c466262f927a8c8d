package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"
)

// Redis is a fixed window limiter shared between instances. Each window is
// a counter key that expires with the window.
type Redis struct {
	client rueidis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedis creates a Redis backed limiter. Keys are "<prefix>:<key>:<window>".
func NewRedis(client rueidis.Client, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// NewRedisClient connects to a single Redis node
func NewRedisClient(addr string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return client, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := r.windowKey(key, r.now())

	// INCR and PEXPIRE share one round trip
	results := r.client.DoMulti(ctx,
		r.client.B().Incr().Key(redisKey).Build(),
		r.client.B().Pexpire().Key(redisKey).Milliseconds(windowTTL(r.window)).Build(),
	)
	count, err := results[0].AsInt64()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if err := results[1].Error(); err != nil {
		return false, fmt.Errorf("failed to set rate counter expiry: %w", err)
	}

	return count <= int64(r.limit), nil
}

// windowKey names the counter for the window containing now
func (r *Redis) windowKey(key string, now time.Time) string {
	windowStart := now.UnixNano() / int64(r.window)
	return r.prefix + ":" + key + ":" + strconv.FormatInt(windowStart, 10)
}

// windowTTL is the counter lifetime in milliseconds, never below one
func windowTTL(window time.Duration) int64 {
	if ms := window.Milliseconds(); ms > 0 {
		return ms
	}
	return 1
}
