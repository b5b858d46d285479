package webhook

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper answers whether a delivery id has been seen before. Providers
// redeliver events on timeouts, so the handler consults this before
// processing.
type Deduper interface {
	// Seen marks the id and reports whether it was already marked.
	Seen(ctx context.Context, id string) (bool, error)
}

// NopDeduper never dedupes; every event is processed. Safe because all
// event side effects are idempotent, just wasteful.
type NopDeduper struct{}

func (NopDeduper) Seen(context.Context, string) (bool, error) { return false, nil }

// RedisDeduper tracks delivery ids in Redis with a TTL matching the
// provider's retry horizon.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a deduper on an existing client. A non-positive
// ttl falls back to 24 hours.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Seen(ctx context.Context, id string) (bool, error) {
	set, err := d.client.SetNX(ctx, "webhook:seen:"+id, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !set, nil
}
