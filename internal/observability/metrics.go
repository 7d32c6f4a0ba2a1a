// Package observability provides logging, metrics, and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stackit_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketConnectionsTotal is the gauge of active WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stackit_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackit_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackit_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// NotificationsDispatched counts persisted notifications by type.
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackit_notifications_dispatched_total",
		Help: "Total number of notifications dispatched by type",
	}, []string{"type"})

	// VotesCast counts vote operations by target and outcome.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stackit_votes_cast_total",
		Help: "Total number of vote operations by target type and outcome",
	}, []string{"target_type", "outcome"})
)
