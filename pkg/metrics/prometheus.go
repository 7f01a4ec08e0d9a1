// Package metrics provides Prometheus metrics for the group-access marketplace service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the marketplace service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for a marketplace
	listingsActive     prometheus.Gauge
	purchasesSubmitted prometheus.Counter
	purchasesSettled   prometheus.Counter
	purchasesFailed    prometheus.Counter
	salesRevenue       prometheus.Counter
	protocolFees       prometheus.Counter
	boardUpdates       prometheus.Counter

	// Funds Metrics - Payout and fallback accounting
	payoutsDirect     prometheus.Counter
	payoutsFallback   prometheus.Counter
	ledgerOutstanding prometheus.Gauge
	claimsSettled     prometheus.Counter

	// Relay Metrics - Bridge queue performance
	relayQueueSize        prometheus.Gauge
	relayQueueCapacity    prometheus.Gauge
	relayQueueUtilization prometheus.Gauge
	relayEnqueueTotal     prometheus.Counter
	relayEnqueueErrors    prometheus.Counter
	relayDequeueTotal     prometheus.Counter
	relayLatency          prometheus.Histogram
	relayWorkerCount      prometheus.Gauge
	relayErrors           prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Metrics - Process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "codex",
		subsystem:        "marketplace",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.listingsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "listings_active",
		Help:      "Current number of active listings",
	})

	m.purchasesSubmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "purchases_submitted_total",
		Help:      "Total number of purchase requests forwarded to the relay",
	})

	m.purchasesSettled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "purchases_settled_total",
		Help:      "Total number of purchases settled successfully",
	})

	m.purchasesFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "purchases_failed_total",
		Help:      "Total number of purchases that failed at settlement and were refunded",
	})

	m.salesRevenue = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sales_revenue_total",
		Help:      "Cumulative sale price of settled purchases",
	})

	m.protocolFees = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "protocol_fees_total",
		Help:      "Cumulative protocol fees retained on settlement",
	})

	m.boardUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_updates_total",
		Help:      "Total number of ranking board upserts",
	})

	// Funds Metrics
	m.payoutsDirect = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "payouts_direct_total",
		Help:      "Total number of direct push payouts that succeeded",
	})

	m.payoutsFallback = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "payouts_fallback_total",
		Help:      "Total number of failed push payouts credited to the unclaimed ledger",
	})

	m.ledgerOutstanding = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_outstanding",
		Help:      "Sum of unclaimed balances currently owed",
	})

	m.claimsSettled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "claims_settled_total",
		Help:      "Total number of successful unclaimed-funds claims",
	})

	// Relay Metrics
	m.relayQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_queue_size",
		Help:      "Current size of the admission request queue (backlog indicator)",
	})

	m.relayQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_queue_capacity",
		Help:      "Maximum admission request queue capacity",
	})

	m.relayQueueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_queue_utilization_ratio",
		Help:      "Admission queue utilization ratio (current size / capacity)",
	})

	m.relayEnqueueTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_enqueue_total",
		Help:      "Total number of admission requests enqueued",
	})

	m.relayEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_enqueue_errors_total",
		Help:      "Total number of admission enqueue errors",
	})

	m.relayDequeueTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_dequeue_total",
		Help:      "Total number of admission requests dequeued",
	})

	m.relayLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_latency_milliseconds",
		Help:      "Histogram of relay round-trip latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.relayWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_worker_count",
		Help:      "Current number of relay workers (processing capacity)",
	})

	m.relayErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "relay_errors_total",
		Help:      "Total number of relay worker errors",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
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

	// System Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Business metric helpers.

func UpdateActiveListings(count int) {
	globalManager.listingsActive.Set(float64(count))
}

func RecordPurchaseSubmitted() {
	globalManager.purchasesSubmitted.Inc()
}

func RecordPurchaseSettled(price uint64, fee uint64) {
	globalManager.purchasesSettled.Inc()
	globalManager.salesRevenue.Add(float64(price))
	globalManager.protocolFees.Add(float64(fee))
}

func RecordPurchaseFailed() {
	globalManager.purchasesFailed.Inc()
}

func RecordBoardUpdate() {
	globalManager.boardUpdates.Inc()
}

// Funds metric helpers.

func RecordDirectPayout() {
	globalManager.payoutsDirect.Inc()
}

func RecordFallbackCredit() {
	globalManager.payoutsFallback.Inc()
}

func UpdateLedgerOutstanding(total uint64) {
	globalManager.ledgerOutstanding.Set(float64(total))
}

func RecordClaimSettled() {
	globalManager.claimsSettled.Inc()
}

// Relay metric helpers.

func UpdateRelayQueueSize(size int) {
	globalManager.relayQueueSize.Set(float64(size))
}

func UpdateRelayQueueCapacity(capacity int) {
	globalManager.relayQueueCapacity.Set(float64(capacity))
}

func UpdateRelayQueueUtilization(utilization float64) {
	globalManager.relayQueueUtilization.Set(utilization)
}

func RecordRelayEnqueue() {
	globalManager.relayEnqueueTotal.Inc()
}

func RecordRelayEnqueueError() {
	globalManager.relayEnqueueErrors.Inc()
}

func RecordRelayDequeue() {
	globalManager.relayDequeueTotal.Inc()
}

func RecordRelayLatency(latencyMs float64) {
	globalManager.relayLatency.Observe(latencyMs)
}

func UpdateRelayWorkerCount(count int) {
	globalManager.relayWorkerCount.Set(float64(count))
}

func RecordRelayError() {
	globalManager.relayErrors.Inc()
}

// HTTP metric helpers.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// System metric helpers.

func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
