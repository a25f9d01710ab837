// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bizdir_submissions_created_total",
			Help: "Total number of submissions received",
		},
	)

	SubmissionsReviewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizdir_submissions_reviewed_total",
			Help: "Total number of moderation decisions by outcome",
		},
		[]string{"status"},
	)

	PositionAllocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bizdir_position_allocations_total",
			Help: "Position slot allocation attempts by result",
		},
		[]string{"result"}, // ok, conflict, error
	)

	PositionSweepCleared = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bizdir_position_sweep_cleared_total",
			Help: "Total number of expired position slots cleared",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bizdir_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	PanicsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bizdir_http_panics_recovered_total",
			Help: "Total number of handler panics turned into 500 responses",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bizdir_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
