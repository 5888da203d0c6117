package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge
	txRetries       prometheus.Counter

	bookingsCreated     prometheus.Counter
	bookingConflicts    prometheus.Counter
	bookingsCancelled   *prometheus.CounterVec
	creditsIssued       prometheus.Counter
	creditsRedeemed     prometheus.Counter
	notificationsFailed *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в переданном регистре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_open_connections", Help: "Open connections", ConstLabels: constLabels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_in_use_connections", Help: "Connections in use", ConstLabels: constLabels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_idle_connections", Help: "Idle connections", ConstLabels: constLabels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_pool_wait_count", Help: "Total number of connections waited for", ConstLabels: constLabels,
		}),
		txRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "db_tx_retries_total", Help: "Transactions retried after a transient error", ConstLabels: constLabels,
		}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookings_created_total", Help: "Bookings admitted", ConstLabels: constLabels,
		}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_conflicts_total", Help: "Admission attempts rejected with a slot conflict", ConstLabels: constLabels,
		}),
		bookingsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_cancelled_total", Help: "Cancelled bookings by policy tier", ConstLabels: constLabels,
		}, []string{"tier"}),
		creditsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compensation_credits_issued_total", Help: "Compensation credits issued", ConstLabels: constLabels,
		}),
		creditsRedeemed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compensation_credits_redeemed_total", Help: "Compensation credits redeemed", ConstLabels: constLabels,
		}),
		notificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_failed_total", Help: "Domain events that could not be delivered", ConstLabels: constLabels,
		}, []string{"event"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueryDuration,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.txRetries,
		m.bookingsCreated,
		m.bookingConflicts,
		m.bookingsCancelled,
		m.creditsIssued,
		m.creditsRedeemed,
		m.notificationsFailed,
	)

	return m
}

// ObserveHTTPRequest фиксирует выполненный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(stats.OpenConnections))
	m.dbInUseConns.Set(float64(stats.InUse))
	m.dbIdleConns.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

func (m *Metrics) IncTxRetry() {
	if m == nil {
		return
	}
	m.txRetries.Inc()
}

func (m *Metrics) IncBookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

func (m *Metrics) IncBookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

func (m *Metrics) IncBookingCancelled(tier string) {
	if m == nil {
		return
	}
	m.bookingsCancelled.WithLabelValues(tier).Inc()
}

func (m *Metrics) IncCreditIssued() {
	if m == nil {
		return
	}
	m.creditsIssued.Inc()
}

func (m *Metrics) IncCreditRedeemed() {
	if m == nil {
		return
	}
	m.creditsRedeemed.Inc()
}

func (m *Metrics) IncNotificationFailed(event string) {
	if m == nil {
		return
	}
	m.notificationsFailed.WithLabelValues(event).Inc()
}
