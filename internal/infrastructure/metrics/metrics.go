package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsProcessed *prometheus.CounterVec
	TransactionsReversed  prometheus.Counter
	TransactionDuration   prometheus.Histogram
	TransactionErrors     *prometheus.CounterVec
	InsufficientStock     *prometheus.CounterVec
	DateWindowRejections  prometheus.Counter

	// Stock metrics
	StockBalance *prometheus.GaugeVec

	// Running-account metrics
	AccountMovements *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec
	TxRetries     prometheus.Counter

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transaction metrics
		TransactionsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_transactions_processed_total",
				Help: "Total number of transactions processed by movement direction",
			},
			[]string{"direction"},
		),
		TransactionsReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_transactions_reversed_total",
			Help: "Total number of transactions reversed",
		}),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "backoffice_transaction_duration_seconds",
			Help:    "Duration of transaction processing",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),
		InsufficientStock: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_insufficient_stock_total",
				Help: "Total number of operations rejected for insufficient stock",
			},
			[]string{"currency"},
		),
		DateWindowRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_date_window_rejections_total",
			Help: "Total number of operations rejected by the date edit window",
		}),

		// Stock metrics
		StockBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backoffice_stock_balance",
				Help: "Current currency stock balance",
			},
			[]string{"currency"},
		),

		// Running-account metrics
		AccountMovements: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_account_movements_total",
				Help: "Total running-account movements by direction",
			},
			[]string{"direction"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "backoffice_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
		TxRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_tx_retries_total",
			Help: "Total transaction retries after serialization conflicts",
		}),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
