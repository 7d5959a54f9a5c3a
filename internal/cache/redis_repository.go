// Package cache memoizes the surrounding system's conflict-query predicate
// (spec 6: "given (week, day, period, teacherId, roomId, groupIds,
// excludeItemId?), return the list of human-readable conflict
// descriptions") behind Redis, since that query is read-heavy UI traffic
// distinct from the generation run itself. Grounded on the teacher's
// CacheRepository/CacheService split in the deleted cache_service.go,
// adapted here to wrap the conflictindex predicate instead of generic
// HTTP response payloads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/timetable-core/pkg/errors"
)

// Repository abstracts persistence for cached payloads, matching the
// teacher's CacheRepository contract.
type Repository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RedisRepository implements Repository over go-redis.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository constructs a RedisRepository.
func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Get fetches key and JSON-decodes it into dest; a missing key surfaces as
// appErrors.ErrCacheMiss so callers can distinguish it from transport
// errors.
func (r *RedisRepository) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Set JSON-encodes value and stores it under key with the given ttl.
func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, payload, ttl).Err()
}

// DeleteByPattern removes every key matching pattern, scanning in batches
// to avoid blocking Redis with a single KEYS call.
func (r *RedisRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
