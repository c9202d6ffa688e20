package vaultgate

import "sync/atomic"

// MetricID names one engine counter.
type MetricID uint16

const (
	// MetricRegisterSuccess counts successful credential registrations.
	MetricRegisterSuccess MetricID = iota
	// MetricRegisterFailure counts failed registrations, injected or not.
	MetricRegisterFailure
	// MetricAuthSuccess counts sessions opened by Authenticate.
	MetricAuthSuccess
	// MetricAuthFailure counts Authenticate calls that did not open a
	// session, whatever the cause.
	MetricAuthFailure
	// MetricSessionClosed counts successful Deauthenticate calls.
	MetricSessionClosed
	// MetricAuthzCheck counts IsAuthorized calls.
	MetricAuthzCheck
	// MetricInjectedFault counts storage failures tagged as injected.
	MetricInjectedFault

	metricCount
)

// Metrics is a fixed set of lock-free counters. A nil *Metrics is a valid
// no-op sink.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

// NewMetrics returns a zeroed counter set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Inc adds one to the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns the current value for id.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot copies all counters at once. The copy is not atomic across
// counters.
func (m *Metrics) Snapshot() map[MetricID]uint64 {
	snap := make(map[MetricID]uint64, metricCount)
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap[id] = m.counters[id].Load()
	}
	return snap
}
