package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers which blog an Idempotency-Key produced.
// Key format: idem:blog:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the blog ID recorded for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID int64, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q", val)
	}
	return id, true, nil
}

// Remember records blogID under key; the first writer wins.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID int64, key string, blogID int64, ttl time.Duration) error {
	if err := s.client.SetNX(ctx, s.key(ownerID, key), blogID, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID int64, key string) string {
	return fmt.Sprintf("idem:blog:%d:%s", ownerID, key)
}
