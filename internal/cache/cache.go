// Package cache provides time-bounded memoization of accessor outputs,
// backed by Redis. Values are stored as JSON under keys derived from the
// call arguments; staleness up to the TTL is accepted by design and there
// is no explicit invalidation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Store is the minimal surface the services memoize through. A failing
// store degrades to a miss — the upstream call still happens.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

// RedisStore is the production Store.
type RedisStore struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisStore wraps a Redis client as a Store.
func NewRedisStore(rdb *redis.Client, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		log: log.With().Str("component", "cache").Logger(),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return nil, false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := s.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Memoize returns the cached value under key when present, otherwise calls
// fn, stores its JSON encoding and returns it. Undecodable cache entries
// are treated as misses.
func Memoize[T any](ctx context.Context, store Store, key string, ttl time.Duration, fn func() T) T {
	if raw, ok := store.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}

	v := fn()
	if raw, err := json.Marshal(v); err == nil {
		store.Set(ctx, key, raw, ttl)
	}
	return v
}
