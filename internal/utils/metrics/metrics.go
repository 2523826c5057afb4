package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Video lifecycle metrics
	VideoTransitionsTotal *prometheus.CounterVec
	PublishFailuresTotal  prometheus.Counter

	// Realtime metrics
	RoomMembers     prometheus.Gauge
	BroadcastsTotal *prometheus.CounterVec

	// Notification metrics
	EmailsTotal *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "videoflow"
	}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		VideoTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "video",
				Name:      "transitions_total",
				Help:      "Total number of video status transitions",
			},
			[]string{"to"},
		),
		PublishFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "video",
				Name:      "publish_failures_total",
				Help:      "Total number of failed YouTube publish attempts",
			},
		),

		RoomMembers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "realtime",
				Name:      "room_members",
				Help:      "Current number of room memberships on this instance",
			},
		),
		BroadcastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "realtime",
				Name:      "broadcasts_total",
				Help:      "Total number of room broadcasts by event",
			},
			[]string{"event"},
		),

		EmailsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notification",
				Name:      "emails_total",
				Help:      "Total number of emails by template and outcome",
			},
			[]string{"template", "status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTransition records a video status transition.
func (m *Metrics) RecordTransition(to string) {
	m.VideoTransitionsTotal.WithLabelValues(to).Inc()
}

// RecordPublishFailure records a failed YouTube publish attempt.
func (m *Metrics) RecordPublishFailure() {
	m.PublishFailuresTotal.Inc()
}

// RecordBroadcast records a room broadcast.
func (m *Metrics) RecordBroadcast(event string) {
	m.BroadcastsTotal.WithLabelValues(event).Inc()
}

// RoomJoined records a session joining a room on this instance.
func (m *Metrics) RoomJoined() {
	m.RoomMembers.Inc()
}

// RoomLeft records a session leaving a room on this instance.
func (m *Metrics) RoomLeft() {
	m.RoomMembers.Dec()
}

// RecordEmail records an email send attempt.
func (m *Metrics) RecordEmail(template string, err error) {
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.EmailsTotal.WithLabelValues(template, status).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
