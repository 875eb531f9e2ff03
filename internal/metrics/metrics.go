// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qaboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qaboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qaboard_rate_limit_hits_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"route"},
	)

	// StarSelections counts weekly star attempts by outcome
	// (selected, conflict, no_candidate, storage_unavailable, error).
	StarSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qaboard_star_selections_total",
			Help: "Weekly star selection attempts by outcome",
		},
		[]string{"trigger", "outcome"},
	)

	Votes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qaboard_votes_total",
			Help: "Votes cast by target and resulting vote",
		},
		[]string{"target", "kind"},
	)

	FeedCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qaboard_feed_cache_lookups_total",
			Help: "Feed cache lookups by result",
		},
		[]string{"result"},
	)

	// MediaBreakerState is 0 closed, 1 half-open, 2 open.
	MediaBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qaboard_media_breaker_state",
			Help: "State of the media host circuit breaker",
		},
	)

	HandlerPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qaboard_handler_panics_total",
			Help: "Panics recovered from HTTP handlers",
		},
	)

	MediaUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qaboard_media_uploads_total",
			Help: "Media uploads by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordStarSelection records a weekly star attempt. trigger is "admin",
// "scheduler" or "cli".
func RecordStarSelection(trigger, outcome string) {
	StarSelections.WithLabelValues(trigger, outcome).Inc()
}

// RecordVote records a vote toggle. An empty kind means the vote was withdrawn.
func RecordVote(target, kind string) {
	if kind == "" {
		kind = "withdrawn"
	}
	Votes.WithLabelValues(target, kind).Inc()
}

// RecordFeedCache records a cache hit or miss.
func RecordFeedCache(hit bool) {
	if hit {
		FeedCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	FeedCacheLookups.WithLabelValues("miss").Inc()
}
