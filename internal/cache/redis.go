package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces classification keys so the cache can share a
// Redis database with other tooling.
const keyPrefix = "wikigraph:classification:"

// connectionTimeout bounds the initial PING used to verify the
// connection. Everything after construction uses the caller's context.
const connectionTimeout = 5 * time.Second

// ErrEmptyAddress is returned when no Redis address is configured.
var ErrEmptyAddress = errors.New("redis address is required")

// Redis is a Cache backed by a Redis server. Verdicts persist across
// runs with no TTL; eviction policy belongs to the server operator.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis server at address and verifies the
// connection with a PING before returning.
func NewRedis(address, password string, db int) (*Redis, error) {
	if address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

// Get returns the stored verdict for a page id. A missing key is
// reported as absent, not as an error.
func (r *Redis) Get(ctx context.Context, pageID string) (bool, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+pageID).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("redis get failed for %s: %w", pageID, err)
	}
	return val == "1", true, nil
}

// Set stores the verdict for a page id.
func (r *Redis) Set(ctx context.Context, pageID string, verdict bool) error {
	val := "0"
	if verdict {
		val = "1"
	}
	if err := r.client.Set(ctx, keyPrefix+pageID, val, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed for %s: %w", pageID, err)
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
