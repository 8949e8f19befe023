// Package metrics provides Prometheus metrics for the HarperBot quiz service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the bot.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Dispatch metrics
	promptsDispatched prometheus.Counter
	promptsRemaining  prometheus.Gauge
	schedulerState    prometheus.Gauge

	// Submission metrics
	answersSubmitted     prometheus.Counter
	validationRejections prometheus.Counter
	participantCount     prometheus.Gauge

	// Grading metrics
	gradesRecorded   *prometheus.CounterVec
	gradingConflicts prometheus.Counter
	pointsAwarded    prometheus.Counter

	// Gateway metrics
	gatewayEvents     *prometheus.CounterVec
	gatewayReconnects prometheus.Counter
	displayErrors     prometheus.Counter
	displayLatency    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "harper",
		subsystem:        "quiz",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.promptsDispatched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prompts_dispatched_total",
		Help:      "Total number of prompts posted to channels",
	})

	m.promptsRemaining = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prompts_remaining",
		Help:      "Prompts still available in the bank",
	})

	m.schedulerState = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scheduler_state",
		Help:      "Scheduler state (0=idle, 1=running, 2=halted)",
	})

	m.answersSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "answers_submitted_total",
		Help:      "Total number of accepted answer submissions",
	})

	m.validationRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_rejections_total",
		Help:      "Submissions rejected for failing validation",
	})

	m.participantCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "participant_count",
		Help:      "Number of participants that have submitted at least once",
	})

	m.gradesRecorded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "grades_recorded_total",
			Help:      "Total number of grading decisions by outcome",
		},
		[]string{"outcome"},
	)

	m.gradingConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grading_conflicts_total",
		Help:      "Grading attempts rejected because the answer was already graded",
	})

	m.pointsAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points_awarded_total",
		Help:      "Cumulative points awarded across all participants",
	})

	m.gatewayEvents = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "gateway_events_total",
			Help:      "Inbound gateway events by type",
		},
		[]string{"type"},
	)

	m.gatewayReconnects = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gateway_reconnects_total",
		Help:      "Gateway session reconnect attempts",
	})

	m.displayErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "display_errors_total",
		Help:      "Failed outbound display/notification calls",
	})

	m.displayLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "display_latency_milliseconds",
		Help:      "Latency of outbound display calls in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordPromptDispatched increments the dispatched prompts counter.
func RecordPromptDispatched() {
	globalManager.promptsDispatched.Inc()
}

// UpdatePromptsRemaining sets the remaining prompt count.
func UpdatePromptsRemaining(n int) {
	globalManager.promptsRemaining.Set(float64(n))
}

// UpdateSchedulerState sets the scheduler state gauge.
func UpdateSchedulerState(state int) {
	globalManager.schedulerState.Set(float64(state))
}

// RecordAnswerSubmitted increments the submitted answers counter.
func RecordAnswerSubmitted() {
	globalManager.answersSubmitted.Inc()
}

// RecordValidationRejection increments the validation rejections counter.
func RecordValidationRejection() {
	globalManager.validationRejections.Inc()
}

// UpdateParticipantCount sets the participant count gauge.
func UpdateParticipantCount(n int) {
	globalManager.participantCount.Set(float64(n))
}

// RecordGradeRecorded increments the grades counter for an outcome
// ("accepted" or "rejected").
func RecordGradeRecorded(outcome string) {
	globalManager.gradesRecorded.WithLabelValues(outcome).Inc()
}

// RecordGradingConflict increments the already-graded conflict counter.
func RecordGradingConflict() {
	globalManager.gradingConflicts.Inc()
}

// RecordPointsAwarded adds to the cumulative awarded points counter.
func RecordPointsAwarded(points int) {
	globalManager.pointsAwarded.Add(float64(points))
}

// RecordGatewayEvent increments the inbound event counter for a type.
func RecordGatewayEvent(eventType string) {
	globalManager.gatewayEvents.WithLabelValues(eventType).Inc()
}

// RecordGatewayReconnect increments the reconnect counter.
func RecordGatewayReconnect() {
	globalManager.gatewayReconnects.Inc()
}

// RecordDisplayError increments the failed display call counter.
func RecordDisplayError() {
	globalManager.displayErrors.Inc()
}

// RecordDisplayLatency records an outbound display call latency in milliseconds.
func RecordDisplayLatency(latencyMs float64) {
	globalManager.displayLatency.Observe(latencyMs)
}

// Registry returns the custom Prometheus registry for the /metrics endpoint.
func Registry() *prometheus.Registry {
	return customRegistry
}
