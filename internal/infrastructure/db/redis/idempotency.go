package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps Idempotency-Key header values to the diary entry they
// created. Key format: idem:diary:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Lookup returns the entry id remembered for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records entryID under key (expires after ttl). An existing mapping
// is kept.
func (s *IdempotencyStore) Remember(ctx context.Context, key, entryID string) error {
	if err := s.client.SetNX(ctx, s.key(key), entryID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Replace points key at entryID, overwriting any earlier mapping, and restarts
// the ttl.
func (s *IdempotencyStore) Replace(ctx context.Context, key, entryID string) error {
	if err := s.client.Set(ctx, s.key(key), entryID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency replace: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return "idem:diary:" + k
}
