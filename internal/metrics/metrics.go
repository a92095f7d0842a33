// Package metrics provides Prometheus metrics for the notification panel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "notif_panel"
)

// Panel metrics
var (
	// ActiveNotifications tracks notifications in the panel by known severity.
	ActiveNotifications = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "active_notifications",
			Help:      "Number of notifications in the panel by known severity",
		},
		[]string{"severity"},
	)

	// AlarmState exposes the current alarm state (0 idle, 1 info, 2 warning, 3 critical).
	AlarmState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "alarm_state",
			Help:      "Current alarm state: 0 idle, 1 info, 2 warning, 3 critical",
		},
	)

	// AlarmTransitionsTotal counts alarm state changes by target state.
	AlarmTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "alarm_transitions_total",
			Help:      "Total alarm state changes by target state",
		},
		[]string{"state"},
	)

	// AckAllRequestsTotal counts acknowledge-all requests fired to listeners.
	AckAllRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "ack_all_requests_total",
			Help:      "Total acknowledge-all requests fired",
		},
	)
)

// Audio metrics
var (
	// CueStartsTotal counts cue playbacks requested by cue.
	CueStartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audio",
			Name:      "cue_starts_total",
			Help:      "Total cue playbacks started by cue",
		},
		[]string{"cue"},
	)

	// PlaybackFailuresTotal counts swallowed playback failures.
	PlaybackFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audio",
			Name:      "playback_failures_total",
			Help:      "Total playback failures swallowed by the panel",
		},
	)
)

// gRPC metrics
var (
	// PushRequestsTotal counts push API calls by method and status code.
	PushRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "push_requests_total",
			Help:      "Total push API requests by method and status code",
		},
		[]string{"method", "code"},
	)

	// WatchStreamsActive tracks subscribed acknowledge-all streams.
	WatchStreamsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "watch_streams_active",
			Help:      "Number of active acknowledge-all watch streams",
		},
	)
)
