package domain

import (
	"sync/atomic"
	"time"
)

// Metrics tracks pipeline throughput counters. All counters are atomic so
// the struct can be shared across the API server, worker, and CLI paths.
type Metrics struct {
	Total      atomic.Int64
	Succeeded  atomic.Int64
	Failed     atomic.Int64
	RealSource atomic.Int64
	Synthetic  atomic.Int64

	// Cumulative processing time in nanoseconds.
	DurationNanos atomic.Int64

	// Registry requests observed in the current rate window, mirrored
	// from the cache counter on every outbound fetch.
	RegistryWindow atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Total          int64   `json:"totalProcessed"`
	Succeeded      int64   `json:"succeeded"`
	Failed         int64   `json:"failed"`
	RealSource     int64   `json:"realDataExtractions"`
	Synthetic      int64   `json:"syntheticFallbacks"`
	AvgSeconds     float64 `json:"avgProcessingSeconds"`
	SuccessRatePct float64 `json:"successRatePct"`

	RegistryRequests int64 `json:"registryRequestsWindow"`
}

// RecordSuccess registers one completed extraction.
func (m *Metrics) RecordSuccess(d time.Duration, authentic bool) {
	m.Total.Add(1)
	m.Succeeded.Add(1)
	m.DurationNanos.Add(int64(d))
	if authentic {
		m.RealSource.Add(1)
	} else {
		m.Synthetic.Add(1)
	}
}

// RecordFailure registers one failed extraction.
func (m *Metrics) RecordFailure(d time.Duration) {
	m.Total.Add(1)
	m.Failed.Add(1)
	m.DurationNanos.Add(int64(d))
}

// Snapshot returns a consistent-enough copy for reporting.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Total:            m.Total.Load(),
		Succeeded:        m.Succeeded.Load(),
		Failed:           m.Failed.Load(),
		RealSource:       m.RealSource.Load(),
		Synthetic:        m.Synthetic.Load(),
		RegistryRequests: m.RegistryWindow.Load(),
	}
	if s.Total > 0 {
		s.AvgSeconds = time.Duration(m.DurationNanos.Load()).Seconds() / float64(s.Total)
		s.SuccessRatePct = float64(s.Succeeded) / float64(s.Total) * 100
	}
	return s
}
