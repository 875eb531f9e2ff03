// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"qaboard/internal/cache"
	"qaboard/internal/config"
	"qaboard/internal/database"
	"qaboard/internal/handlers"
	"qaboard/internal/router"
	"qaboard/internal/scheduler"
	"qaboard/internal/session"
	"qaboard/internal/storage"
	"qaboard/internal/store"
	"qaboard/internal/supervisor"
	"qaboard/internal/weekly"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the weekly star job",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", "env", cfg.Server.Env, "addr", cfg.Addr())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	valkeyClient, err := cache.ConnectValkey(ctx, cache.Valkey{
		Host:     cfg.Valkey.Host,
		Port:     cfg.Valkey.Port,
		Password: cfg.Valkey.Password,
		DB:       cfg.Valkey.DB,
	})
	if err != nil {
		return fmt.Errorf("connect to valkey: %w", err)
	}
	defer valkeyClient.Close()

	uploader, err := newUploader(cfg, logger)
	if err != nil {
		return err
	}

	selector := weekly.NewSelector(store.NewStarStore(db), nil)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, db, valkeyClient, uploader, selector),
		ReadHeaderTimeout: 5 * time.Second,
		// Video uploads may be up to 100MB.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	tree := supervisor.NewTree(logger, supervisor.TreeConfig{ShutdownTimeout: 30 * time.Second})
	tree.AddAPIService(supervisor.NewHTTPService(srv, 30*time.Second))
	if cfg.Star.Enabled {
		tree.AddJob(scheduler.NewStarJob(selector, cfg.Star.Interval, logger))
	} else {
		logger.Info("weekly star job disabled")
	}

	logger.Info("server starting", "addr", cfg.Addr())
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor stopped: %w", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logger.Warn("services did not stop in time", "count", len(report))
	}
	logger.Info("server stopped gracefully")
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(ctx, cfg.DSN(), database.PoolConfig{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

// newUploader returns a nil interface, never a typed nil, when no media
// host is configured.
func newUploader(cfg *config.Config, logger *slog.Logger) (handlers.Uploader, error) {
	if !cfg.StorageEnabled() {
		logger.Warn("s3 storage not configured, media uploads disabled")
		return nil, nil
	}
	client, err := storage.New(storage.Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		PublicURL: cfg.S3.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	if client == nil {
		logger.Warn("s3 credentials missing, media uploads disabled")
		return nil, nil
	}
	logger.Info("s3 storage connected", "endpoint", cfg.S3.Endpoint, "bucket", client.Bucket())
	return client, nil
}

func newRouter(cfg *config.Config, db *sql.DB, valkeyClient *redis.Client, uploader handlers.Uploader, selector *weekly.Selector) http.Handler {
	secureCookies := !cfg.IsDev()
	sessions := session.NewStore(valkeyClient, secureCookies)
	feed := cache.NewFeedCache(valkeyClient, cache.DefaultFeedTTL)

	users := store.NewUserStore(db)
	questions := store.NewQuestionStore(db)
	replies := store.NewReplyStore(db)
	reviews := store.NewReviewStore(db)

	return router.New(router.Deps{
		Sessions:      sessions,
		Auth:          handlers.NewAuth(sessions, users),
		Questions:     handlers.NewQuestions(questions, replies, feed),
		Reviews:       handlers.NewReviews(reviews, feed),
		Uploads:       handlers.NewUploads(uploader, store.NewMediaStore(db)),
		Star:          handlers.NewStar(selector),
		Dashboard:     handlers.NewDashboard(users, questions, replies),
		Contact:       handlers.NewContact(store.NewSuggestionStore(db)),
		CORSOrigins:   cfg.Server.CORSOrigins,
		SecureCookies: secureCookies,
		RateLimit:     cfg.Limits.Requests,
		RateWindow:    cfg.Limits.Window,
	})
}
