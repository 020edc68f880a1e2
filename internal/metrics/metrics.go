package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec

	// Conversation metrics
	FlowTransitionsTotal *prometheus.CounterVec
	FlowCompletionsTotal *prometheus.CounterVec

	// Delivery metrics
	DeliveriesTotal *prometheus.CounterVec

	// Store metrics
	StoreOpsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Gauges updated by the background metrics job
	KnownUsers prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camp_webhook_requests_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error, ignored
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "camp_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"event_type"}, // event_type: message, follow
		),

		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camp_llm_requests_total",
				Help: "Total number of LLM completion requests by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "camp_llm_duration_seconds",
				Help:    "LLM completion duration in seconds by provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),

		FlowTransitionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camp_flow_transitions_total",
				Help: "Total number of conversation state transitions by flow and state",
			},
			[]string{"flow", "state"},
		),

		FlowCompletionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camp_flow_completions_total",
				Help: "Total number of completed flows by flow and outcome",
			},
			[]string{"flow", "outcome"}, // outcome: delivered, empty, error
		),

		DeliveriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camp_deliveries_total",
				Help: "Total number of outbound deliveries by kind and status",
			},
			[]string{"kind", "status"}, // kind: reply, push_text, push_flex
		),

		StoreOpsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camp_store_ops_total",
				Help: "Total number of conversation store operations by op and status",
			},
			[]string{"op", "status"}, // op: get, put, clear, register
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "camp_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiters",
			},
			[]string{"limiter"}, // limiter: user
		),

		KnownUsers: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "camp_known_users",
				Help: "Number of users known to the conversation store",
			},
		),
	}
}

// RecordWebhook records a webhook event with its processing outcome.
func (m *Metrics) RecordWebhook(eventType, status string, durationSeconds float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	if durationSeconds > 0 {
		m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(durationSeconds)
	}
}

// RecordLLM records an LLM completion call.
func (m *Metrics) RecordLLM(provider, status string, durationSeconds float64) {
	m.LLMRequestsTotal.WithLabelValues(provider, status).Inc()
	if durationSeconds > 0 {
		m.LLMDurationSeconds.WithLabelValues(provider).Observe(durationSeconds)
	}
}

// RecordTransition records a conversation state transition.
func (m *Metrics) RecordTransition(flow, state string) {
	m.FlowTransitionsTotal.WithLabelValues(flow, state).Inc()
}

// RecordCompletion records a completed flow outcome.
func (m *Metrics) RecordCompletion(flow, outcome string) {
	m.FlowCompletionsTotal.WithLabelValues(flow, outcome).Inc()
}

// RecordDelivery records an outbound message delivery.
func (m *Metrics) RecordDelivery(kind, status string) {
	m.DeliveriesTotal.WithLabelValues(kind, status).Inc()
}

// RecordStoreOp records a conversation store operation.
func (m *Metrics) RecordStoreOp(op, status string) {
	m.StoreOpsTotal.WithLabelValues(op, status).Inc()
}

// RecordRateLimiterDrop records a dropped request.
func (m *Metrics) RecordRateLimiterDrop(limiter string) {
	m.RateLimiterDropped.WithLabelValues(limiter).Inc()
}

// SetKnownUsers updates the known users gauge.
func (m *Metrics) SetKnownUsers(count int) {
	m.KnownUsers.Set(float64(count))
}
