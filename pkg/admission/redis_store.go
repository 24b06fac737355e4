package admission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/safeharbor-labs/vidguard/pkg/analysis"
)

// redisEntry is the stored JSON shape.
type redisEntry struct {
	Result   *analysis.Result `json:"result"`
	StoredAt time.Time        `json:"stored_at"`
}

// RedisStore keeps results in Redis so multiple instances share one
// cache. Keys expire at a hard TTL several times the controller's soft
// TTL: long enough to serve stale under rate limiting, short enough that
// Redis does the janitorial work.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	hardTTL time.Duration
}

// NewRedisStore wraps an existing client. softTTL is the controller's
// freshness window; entries live in Redis for ten times that.
func NewRedisStore(client *redis.Client, prefix string, softTTL time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "vidguard:result:"
	}
	hard := 10 * softTTL
	if hard <= 0 {
		hard = 24 * time.Hour
	}
	return &RedisStore{client: client, prefix: prefix, hardTTL: hard}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var stored redisEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		// Corrupt entry; drop it and treat as a miss so it gets recomputed
		// instead of reparsed on every read until the hard TTL.
		s.client.Del(ctx, s.prefix+key)
		return nil, false, nil
	}
	return &Entry{Result: stored.Result, StoredAt: stored.StoredAt}, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, res *analysis.Result) error {
	raw, err := json.Marshal(redisEntry{Result: res, StoredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, s.hardTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	var count int
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}
	return count, nil
}
