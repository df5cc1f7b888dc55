package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"inventory-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity operation metrics
	CategoryOperationsCounter  prometheus.CounterVec
	ProductOperationsCounter   prometheus.CounterVec
	InventoryOperationsCounter prometheus.CounterVec

	// Sale metrics
	SalesRecordedCounter prometheus.CounterVec
	SalesRevenueCounter  prometheus.CounterVec

	// Stock level metrics
	ProductInventoryGauge prometheus.GaugeVec
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

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Category metrics
	CategoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)

	// Product metrics
	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	// Inventory metrics
	InventoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_inventory_operations_total",
			Help: "Total number of inventory operations",
		},
		[]string{"operation"},
	)

	// Sale metrics
	SalesRecordedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sales_recorded_total",
			Help: "Total number of sales recorded",
		},
		[]string{"platform"},
	)

	SalesRevenueCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sales_revenue_total",
			Help: "Total revenue of recorded sales",
		},
		[]string{"platform"},
	)

	// Stock level metrics
	ProductInventoryGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_inventory",
			Help: "Current inventory level for products",
		},
		[]string{"product_id"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordInventoryOperation increments the counter for inventory operations
func RecordInventoryOperation(operation string) {
	InventoryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordSale increments the sale counters for a recorded sale
func RecordSale(platform string, totalPrice float64) {
	SalesRecordedCounter.WithLabelValues(platform).Inc()
	SalesRevenueCounter.WithLabelValues(platform).Add(totalPrice)
}

// UpdateProductInventory updates the gauge for a product's stock level
func UpdateProductInventory(productID uint, quantity int) {
	ProductInventoryGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10)).Set(float64(quantity))
}
