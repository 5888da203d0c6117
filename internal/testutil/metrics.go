package testutil

import "sync"

// MetricsRecorder считает вызовы бизнес-счетчиков
type MetricsRecorder struct {
	mu        sync.Mutex
	created   int
	conflicts int
	cancelled map[string]int
	issued    int
	redeemed  int
	failed    map[string]int
}

func (m *MetricsRecorder) IncBookingCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *MetricsRecorder) IncBookingConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *MetricsRecorder) IncBookingCancelled(tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelled == nil {
		m.cancelled = map[string]int{}
	}
	m.cancelled[tier]++
}

func (m *MetricsRecorder) IncCreditIssued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
}

func (m *MetricsRecorder) IncCreditRedeemed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redeemed++
}

func (m *MetricsRecorder) IncNotificationFailed(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed == nil {
		m.failed = map[string]int{}
	}
	m.failed[event]++
}

// MetricsCounts значения счетчиков на момент снимка
type MetricsCounts struct {
	Created   int
	Conflicts int
	Cancelled map[string]int
	Issued    int
	Redeemed  int
	Failed    map[string]int
}

// Snapshot возвращает копию счетчиков
func (m *MetricsRecorder) Snapshot() MetricsCounts {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := MetricsCounts{
		Created:   m.created,
		Conflicts: m.conflicts,
		Issued:    m.issued,
		Redeemed:  m.redeemed,
		Cancelled: map[string]int{},
		Failed:    map[string]int{},
	}
	for k, v := range m.cancelled {
		out.Cancelled[k] = v
	}
	for k, v := range m.failed {
		out.Failed[k] = v
	}
	return out
}
