package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	m.IncBookingCreated()
	m.IncBookingCreated()
	m.IncBookingConflict()
	m.IncBookingCancelled("full_refund")
	m.IncCreditIssued()
	m.IncNotificationFailed("booking.created")
	m.ObserveHTTPRequest("GET", "/api/v1/bookings/{bookingId}", 200, 10*time.Millisecond)
	m.SetPoolStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsCancelled.WithLabelValues("full_refund")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.creditsIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsFailed.WithLabelValues("booking.created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/bookings/{bookingId}", "200")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.dbOpenConns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.dbIdleConns))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBookingCreated()
		m.IncBookingConflict()
		m.IncBookingCancelled("no_refund")
		m.IncCreditIssued()
		m.IncCreditRedeemed()
		m.IncTxRetry()
		m.IncNotificationFailed("credit.issued")
		m.ObserveQuery("exec", time.Second)
		m.ObserveHTTPRequest("POST", "/", 500, time.Second)
		m.SetPoolStats(sql.DBStats{})
	})
}
