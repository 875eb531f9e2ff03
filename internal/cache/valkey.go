// Package cache provides Valkey (Redis-compatible) client initialization
// and a short-lived cache for the public question and review feeds.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Valkey holds connection settings. Sessions and the feed cache share
// one client.
type Valkey struct {
	Host     string
	Port     string
	Password string
	DB       int
	// PingTimeout bounds the startup check. Zero means 5s.
	PingTimeout time.Duration
}

// Addr is host:port.
func (v Valkey) Addr() string {
	return net.JoinHostPort(v.Host, v.Port)
}

// ConnectValkey opens a client and pings it. The client is closed if the
// ping fails.
func ConnectValkey(ctx context.Context, v Valkey) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     v.Addr(),
		Password: v.Password,
		DB:       v.DB,
	})

	timeout := v.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", v.Addr(), err)
	}

	slog.Info("valkey connected", "addr", v.Addr(), "db", v.DB)
	return client, nil
}
