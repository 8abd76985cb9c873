// Package cache stores generated coach responses in Redis so identical
// requests inside the TTL don't pay for another provider call. It is an
// optimization only: a nil *ResponseCache disables caching and every
// operation degrades to a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "coach_response:"

type ResponseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects a Redis client for caching.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// New wraps a Redis client as a response cache with the given entry TTL.
func New(rdb *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{rdb: rdb, ttl: ttl}
}

// Key derives a cache key from an operation name and the request payload.
// The payload is hashed so arbitrarily large bodies yield fixed-size keys.
func Key(operation string, payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		// unmarshalable payloads can't be cached deterministically
		return ""
	}
	sum := sha256.Sum256(raw)
	return keyPrefix + operation + ":" + hex.EncodeToString(sum[:])
}

// Get loads a cached response into dst. It reports false on a miss, on a
// disabled cache, or on any Redis error; a broken cache must never fail a
// request.
func (c *ResponseCache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.rdb == nil || key == "" {
		return false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// Set stores a response under key for the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, value any) error {
	if c == nil || c.rdb == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops one cached response.
func (c *ResponseCache) Invalidate(ctx context.Context, key string) error {
	if c == nil || c.rdb == nil || key == "" {
		return nil
	}
	err := c.rdb.Del(ctx, key).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
