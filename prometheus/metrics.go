package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/suteetoe/multiblog/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Tenant resolution metrics
	TenantResolutionsCounter prometheus.CounterVec
	TenantNotFoundCounter    prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Post metrics
	PostOperationsCounter prometheus.CounterVec

	// Category metrics
	CategoryOperationsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Tenant resolution outcomes, labeled by the resolved tenant's domain
	TenantResolutionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_resolutions_total",
			Help: "Total number of successful tenant resolutions",
		},
		[]string{"tenant"},
	)

	TenantNotFoundCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_not_found_total",
			Help: "Total number of requests no tenant could be resolved for",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Post metrics
	PostOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_post_operations_total",
			Help: "Total number of post operations",
		},
		[]string{"operation"},
	)

	// Category metrics
	CategoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordTenantResolution increments the counter for resolved tenants
func RecordTenantResolution(tenantDomain string) {
	TenantResolutionsCounter.WithLabelValues(tenantDomain).Inc()
}

// RecordTenantNotFound increments the counter for unresolved requests
func RecordTenantNotFound() {
	TenantNotFoundCounter.Inc()
}

// RecordPostOperation increments the counter for post operations
func RecordPostOperation(operation string) {
	PostOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}
