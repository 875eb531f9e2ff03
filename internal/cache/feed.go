// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"qaboard/internal/metrics"
)

const (
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL bounds how stale a listed vote count can be.
	DefaultFeedTTL = 30 * time.Second
)

// FeedCache stores JSON-encoded feed pages in Valkey. A nil *FeedCache is
// valid and always misses, so callers need not check for a configured cache.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get decodes the cached value for key into dst and reports a hit.
func (fc *FeedCache) Get(ctx context.Context, key string, dst any) bool {
	if fc == nil {
		return false
	}
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordFeedCache(false)
		return false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		metrics.RecordFeedCache(false)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("feed cache decode error", "key", key, "error", err)
		metrics.RecordFeedCache(false)
		return false
	}
	metrics.RecordFeedCache(true)
	return true
}

// Set stores v under key with the configured TTL. Errors are logged only.
func (fc *FeedCache) Set(ctx context.Context, key string, v any) {
	if fc == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("feed cache encode error", "key", key, "error", err)
		return
	}
	if err := fc.client.Set(ctx, feedKeyPrefix+key, payload, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// Invalidate removes the given keys.
func (fc *FeedCache) Invalidate(ctx context.Context, keys ...string) {
	if fc == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = feedKeyPrefix + k
	}
	if err := fc.client.Del(ctx, full...).Err(); err != nil {
		slog.Warn("feed cache invalidate error", "keys", keys, "error", err)
	}
}

// InvalidateAll removes every cached feed page by scanning for the prefix.
// A question vote can change any category page, so writes clear them all.
func (fc *FeedCache) InvalidateAll(ctx context.Context) {
	if fc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, next, err := fc.client.Scan(ctx, cursor, feedKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("feed cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := fc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("feed cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("feed cache cleared", "deleted", deleted)
	}
}

// QuestionsKey returns the cache key for the question feed, optionally
// filtered by category slug.
func QuestionsKey(categorySlug string) string {
	if categorySlug == "" {
		return "questions:all"
	}
	return "questions:" + categorySlug
}

// ReviewsKey returns the cache key for the review feed.
func ReviewsKey() string {
	return "reviews"
}
