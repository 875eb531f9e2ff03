// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "feed:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), Valkey{Host: host, Port: port})
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestValkeyAddr(t *testing.T) {
	if got := (Valkey{Host: "valkey", Port: "6380"}).Addr(); got != "valkey:6380" {
		t.Errorf("Addr = %q", got)
	}
	if got := (Valkey{Host: "::1", Port: "6379"}).Addr(); got != "[::1]:6379" {
		t.Errorf("ipv6 Addr = %q", got)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	// Port 1 on loopback refuses connections.
	_, err := ConnectValkey(context.Background(), Valkey{Host: "127.0.0.1", Port: "1", PingTimeout: time.Second})
	if err == nil {
		t.Fatal("expected ping error")
	}
	if !strings.Contains(err.Error(), "127.0.0.1:1") {
		t.Errorf("error should name the address: %v", err)
	}
}

type feedPage struct {
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

func TestFeedCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	fc := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	var got feedPage
	if fc.Get(ctx, QuestionsKey(""), &got) {
		t.Fatal("expected cache miss")
	}

	want := feedPage{IDs: []string{"a", "b"}, Total: 2}
	fc.Set(ctx, QuestionsKey(""), want)

	if !fc.Get(ctx, QuestionsKey(""), &got) {
		t.Fatal("expected cache hit")
	}
	if got.Total != 2 || len(got.IDs) != 2 || got.IDs[1] != "b" {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestFeedCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	fc := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	fc.Set(ctx, ReviewsKey(), feedPage{Total: 1})
	fc.Set(ctx, QuestionsKey("ai"), feedPage{Total: 1})

	fc.Invalidate(ctx, ReviewsKey())

	var got feedPage
	if fc.Get(ctx, ReviewsKey(), &got) {
		t.Error("expected miss after Invalidate")
	}
	if !fc.Get(ctx, QuestionsKey("ai"), &got) {
		t.Error("unrelated key should survive Invalidate")
	}
}

func TestFeedCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	fc := NewFeedCache(client, time.Minute)
	ctx := context.Background()

	keys := []string{QuestionsKey(""), QuestionsKey("career"), ReviewsKey()}
	for _, k := range keys {
		fc.Set(ctx, k, feedPage{Total: 3})
	}

	fc.InvalidateAll(ctx)

	var got feedPage
	for _, k := range keys {
		if fc.Get(ctx, k, &got) {
			t.Errorf("expected miss for %q after InvalidateAll", k)
		}
	}
}

func TestNilFeedCache(t *testing.T) {
	var fc *FeedCache
	ctx := context.Background()

	fc.Set(ctx, "x", 1)
	fc.Invalidate(ctx, "x")
	fc.InvalidateAll(ctx)
	var v int
	if fc.Get(ctx, "x", &v) {
		t.Error("nil cache should always miss")
	}
}

func TestFeedKeys(t *testing.T) {
	if QuestionsKey("") != "questions:all" {
		t.Errorf("QuestionsKey(\"\") = %q", QuestionsKey(""))
	}
	if QuestionsKey("college-life") != "questions:college-life" {
		t.Errorf("QuestionsKey(slug) = %q", QuestionsKey("college-life"))
	}
	if ReviewsKey() != "reviews" {
		t.Errorf("ReviewsKey() = %q", ReviewsKey())
	}
}

func TestNewFeedCacheDefaultTTL(t *testing.T) {
	fc := NewFeedCache(nil, 0)
	if fc.ttl != DefaultFeedTTL {
		t.Errorf("expected DefaultFeedTTL (%v), got %v", DefaultFeedTTL, fc.ttl)
	}
}
