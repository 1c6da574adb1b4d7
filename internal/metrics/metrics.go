// Package metrics exposes client-side session counters.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riddle_lobby"

// Metrics counts what the session controller sees and does. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	EventsReceived  *prometheus.CounterVec
	EventsIgnored   *prometheus.CounterVec
	ChatDropped     prometheus.Counter
	IntentsRejected *prometheus.CounterVec
	MessagesSent    *prometheus.CounterVec
	PhaseChanges    *prometheus.CounterVec
	EventLatency    prometheus.Histogram
}

// New creates metrics registered on their own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Server events received, by event name",
		}, []string{"event"}),
		EventsIgnored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_ignored_total",
			Help:      "Server events ignored as unknown or stale, by event name",
		}, []string{"event"}),
		ChatDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_dropped_total",
			Help:      "Inbound chat messages dropped as malformed",
		}),
		IntentsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_rejected_total",
			Help:      "User intents rejected locally, by intent name",
		}, []string{"intent"}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Outbound client events, by event name",
		}, []string{"event"}),
		PhaseChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_changes_total",
			Help:      "Session phase transitions, by target phase",
		}, []string{"phase"}),
		EventLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_handle_seconds",
			Help:      "Time spent handling one server event",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.EventsReceived,
		m.EventsIgnored,
		m.ChatDropped,
		m.IntentsRejected,
		m.MessagesSent,
		m.PhaseChanges,
		m.EventLatency,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncEventReceived(event string) {
	if m == nil {
		return
	}
	m.EventsReceived.WithLabelValues(event).Inc()
}

func (m *Metrics) IncEventIgnored(event string) {
	if m == nil {
		return
	}
	m.EventsIgnored.WithLabelValues(event).Inc()
}

func (m *Metrics) IncChatDropped() {
	if m == nil {
		return
	}
	m.ChatDropped.Inc()
}

func (m *Metrics) IncIntentRejected(intent string) {
	if m == nil {
		return
	}
	m.IntentsRejected.WithLabelValues(intent).Inc()
}

func (m *Metrics) IncMessageSent(event string) {
	if m == nil {
		return
	}
	m.MessagesSent.WithLabelValues(event).Inc()
}

func (m *Metrics) IncPhaseChange(phase string) {
	if m == nil {
		return
	}
	m.PhaseChanges.WithLabelValues(phase).Inc()
}

func (m *Metrics) ObserveEventLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.EventLatency.Observe(d.Seconds())
}
