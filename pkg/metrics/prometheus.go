// Package metrics provides Prometheus metrics for the matching core service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Matching pipeline
	scoreRuns        prometheus.Counter
	scoreRunsPartial prometheus.Counter
	scoringLatency   prometheus.Histogram
	matchesCreated   prometheus.Counter
	matchesReplaced  prometheus.Counter
	candidatesTracked prometheus.Gauge

	// Application lifecycle
	applicationsCreated  prometheus.Counter
	transitions          *prometheus.CounterVec
	transitionConflicts  prometheus.Counter
	invalidTransitions   prometheus.Counter

	// Event emission
	eventsEmitted *prometheus.CounterVec
	eventsDropped prometheus.Counter

	// Rescore queue and workers
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	enqueueRejected  prometheus.Counter
	enqueueCollapsed prometheus.Counter
	workerCount      prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager registered on a custom registry so the default Go collectors
// do not leak into scrapes.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "workwale",
		subsystem:        "matching",
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

	m.scoreRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_runs_total",
		Help:      "Total number of candidate scoring runs",
	})

	m.scoreRunsPartial = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_runs_partial_total",
		Help:      "Scoring runs that hit the deadline and returned a partial result",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of per-run scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.matchesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_created_total",
		Help:      "Match records created for pairs with no prior current record",
	})

	m.matchesReplaced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_replaced_total",
		Help:      "Match record sets atomically replaced by recomputation",
	})

	m.candidatesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_tracked",
		Help:      "Number of candidates with a current match set",
	})

	m.applicationsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_created_total",
		Help:      "Total number of applications created",
	})

	m.transitions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "transitions_total",
			Help:      "Successful application status transitions by target status",
		},
		[]string{"to_status"},
	)

	m.transitionConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transition_conflicts_total",
		Help:      "Transitions rejected by the optimistic version check",
	})

	m.invalidTransitions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invalid_transitions_total",
		Help:      "Transitions rejected by the state machine",
	})

	m.eventsEmitted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_emitted_total",
			Help:      "Domain events handed to the emitter by kind",
		},
		[]string{"kind"},
	)

	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Domain events dropped because no subscriber could take them",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rescore_queue_size",
		Help:      "Current depth of the rescore request queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rescore_queue_capacity",
		Help:      "Configured capacity of the rescore request queue",
	})

	m.enqueueRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rescore_enqueue_rejected_total",
		Help:      "Rescore requests rejected due to backpressure",
	})

	m.enqueueCollapsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rescore_enqueue_collapsed_total",
		Help:      "Rescore requests collapsed into an already-pending request",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of active rescore workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers recording on the global manager.

// RecordScoreRun increments the scoring run counter.
func RecordScoreRun() {
	globalManager.scoreRuns.Inc()
}

// RecordScoreRunPartial increments the partial scoring run counter.
func RecordScoreRunPartial() {
	globalManager.scoreRunsPartial.Inc()
}

// RecordScoringLatency records per-run scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// RecordMatchesCreated adds n to the created match record counter.
func RecordMatchesCreated(n int) {
	globalManager.matchesCreated.Add(float64(n))
}

// RecordMatchSetReplaced increments the set replacement counter.
func RecordMatchSetReplaced() {
	globalManager.matchesReplaced.Inc()
}

// UpdateCandidatesTracked sets the tracked candidate gauge.
func UpdateCandidatesTracked(n int) {
	globalManager.candidatesTracked.Set(float64(n))
}

// RecordApplicationCreated increments the application creation counter.
func RecordApplicationCreated() {
	globalManager.applicationsCreated.Inc()
}

// RecordTransition increments the transition counter for the target status.
func RecordTransition(toStatus string) {
	globalManager.transitions.WithLabelValues(toStatus).Inc()
}

// RecordTransitionConflict increments the version conflict counter.
func RecordTransitionConflict() {
	globalManager.transitionConflicts.Inc()
}

// RecordInvalidTransition increments the rejected transition counter.
func RecordInvalidTransition() {
	globalManager.invalidTransitions.Inc()
}

// RecordEventEmitted increments the emitted event counter for kind.
func RecordEventEmitted(kind string) {
	globalManager.eventsEmitted.WithLabelValues(kind).Inc()
}

// RecordEventDropped increments the dropped event counter.
func RecordEventDropped() {
	globalManager.eventsDropped.Inc()
}

// UpdateQueueSize sets the rescore queue depth gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the rescore queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordEnqueueRejected increments the backpressure rejection counter.
func RecordEnqueueRejected() {
	globalManager.enqueueRejected.Inc()
}

// RecordEnqueueCollapsed increments the pending-duplicate collapse counter.
func RecordEnqueueCollapsed() {
	globalManager.enqueueCollapsed.Inc()
}

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry serving /healthz scrapes.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
