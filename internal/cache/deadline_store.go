// Package cache holds the Redis-backed session stores: the persisted
// attempt deadline and the incrementally saved draft answers. Both are
// scoped to one attempt session and cleared when the submission finalizes.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDeadlineStore persists attempt deadlines keyed by assignment and
// student. Entries carry a TTL so abandoned attempts do not accumulate;
// the TTL comfortably exceeds any assignment time limit.
type RedisDeadlineStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeadlineStore(client *redis.Client, ttl time.Duration) *RedisDeadlineStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeadlineStore{client: client, ttl: ttl}
}

// DeadlineKey builds the per-attempt deadline key.
func DeadlineKey(assignmentID, studentID string) string {
	return fmt.Sprintf("deadline:%s:%s", assignmentID, studentID)
}

func (s *RedisDeadlineStore) Read(ctx context.Context, key string) (time.Time, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read deadline: %w", err)
	}

	unixMilli, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt deadline value %q: %w", value, err)
	}
	return time.UnixMilli(unixMilli), true, nil
}

func (s *RedisDeadlineStore) Write(ctx context.Context, key string, deadline time.Time) error {
	value := strconv.FormatInt(deadline.UnixMilli(), 10)
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist deadline: %w", err)
	}
	return nil
}

func (s *RedisDeadlineStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear deadline: %w", err)
	}
	return nil
}
