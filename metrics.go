package locovalidator

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks validation performance metrics using lock-free atomic operations.
// All methods are safe for concurrent use.
type Metrics struct {
	// Validation counts
	validationsTotal atomic.Uint64
	validationsValid atomic.Uint64

	// Stride counts
	stridesTotal atomic.Uint64
	stridesValid atomic.Uint64

	// Timing (stored as nanoseconds)
	validationTimeTotal atomic.Uint64
	validationTimeMin   atomic.Uint64
	validationTimeMax   atomic.Uint64

	// Spec cache metrics
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Issue counts by severity
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	// Per-check timing
	checkTiming sync.Map // map[string]*checkMetrics
}

// checkMetrics tracks metrics for a single validation check.
type checkMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	issuesFound atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.validationTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordValidation records a completed dataset validation.
func (m *Metrics) RecordValidation(duration time.Duration, valid bool) {
	m.validationsTotal.Add(1)
	if valid {
		m.validationsValid.Add(1)
	}

	ns := uint64(duration.Nanoseconds())
	m.validationTimeTotal.Add(ns)

	// Update min (CAS loop)
	for {
		old := m.validationTimeMin.Load()
		if ns >= old {
			break
		}
		if m.validationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (CAS loop)
	for {
		old := m.validationTimeMax.Load()
		if ns <= old {
			break
		}
		if m.validationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordStrides records examined strides and how many passed.
func (m *Metrics) RecordStrides(total, valid int) {
	if total > 0 {
		m.stridesTotal.Add(uint64(total))
	}
	if valid > 0 {
		m.stridesValid.Add(uint64(valid))
	}
}

// RecordCacheHit records a spec cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a spec cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordIssue records an issue by severity.
func (m *Metrics) RecordIssue(severity IssueSeverity) {
	switch severity {
	case SeverityError, SeverityFatal:
		m.errorsTotal.Add(1)
	case SeverityWarning:
		m.warningsTotal.Add(1)
	case SeverityInformation:
		m.infosTotal.Add(1)
	}
}

// RecordCheck records timing for a single validation check execution.
func (m *Metrics) RecordCheck(name string, duration time.Duration, issues int) {
	v, _ := m.checkTiming.LoadOrStore(name, &checkMetrics{})
	cm := v.(*checkMetrics)
	cm.invocations.Add(1)
	cm.totalTime.Add(uint64(duration.Nanoseconds()))
	cm.issuesFound.Add(uint64(issues))
}

// --- Snapshot ---

// Snapshot is a point-in-time copy of metric values.
type Snapshot struct {
	ValidationsTotal uint64 `json:"validationsTotal"`
	ValidationsValid uint64 `json:"validationsValid"`

	StridesTotal uint64 `json:"stridesTotal"`
	StridesValid uint64 `json:"stridesValid"`

	ValidationTimeTotal time.Duration `json:"validationTimeTotal"`
	ValidationTimeMin   time.Duration `json:"validationTimeMin"`
	ValidationTimeMax   time.Duration `json:"validationTimeMax"`
	ValidationTimeAvg   time.Duration `json:"validationTimeAvg"`

	CacheHits    uint64  `json:"cacheHits"`
	CacheMisses  uint64  `json:"cacheMisses"`
	CacheHitRate float64 `json:"cacheHitRate"`

	ErrorsTotal   uint64 `json:"errorsTotal"`
	WarningsTotal uint64 `json:"warningsTotal"`
	InfosTotal    uint64 `json:"infosTotal"`

	Checks map[string]CheckSnapshot `json:"checks,omitempty"`
}

// CheckSnapshot holds per-check aggregates.
type CheckSnapshot struct {
	Invocations uint64        `json:"invocations"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	IssuesFound uint64        `json:"issuesFound"`
}

// Snapshot returns a consistent copy of all metric values.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		ValidationsTotal:    m.validationsTotal.Load(),
		ValidationsValid:    m.validationsValid.Load(),
		StridesTotal:        m.stridesTotal.Load(),
		StridesValid:        m.stridesValid.Load(),
		ValidationTimeTotal: time.Duration(m.validationTimeTotal.Load()),
		CacheHits:           m.cacheHits.Load(),
		CacheMisses:         m.cacheMisses.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		WarningsTotal:       m.warningsTotal.Load(),
		InfosTotal:          m.infosTotal.Load(),
		Checks:              make(map[string]CheckSnapshot),
	}

	if min := m.validationTimeMin.Load(); min != ^uint64(0) {
		s.ValidationTimeMin = time.Duration(min)
	}
	s.ValidationTimeMax = time.Duration(m.validationTimeMax.Load())

	if s.ValidationsTotal > 0 {
		s.ValidationTimeAvg = s.ValidationTimeTotal / time.Duration(s.ValidationsTotal)
	}

	if total := s.CacheHits + s.CacheMisses; total > 0 {
		s.CacheHitRate = float64(s.CacheHits) / float64(total)
	}

	m.checkTiming.Range(func(key, value any) bool {
		cm := value.(*checkMetrics)
		cs := CheckSnapshot{
			Invocations: cm.invocations.Load(),
			TotalTime:   time.Duration(cm.totalTime.Load()),
			IssuesFound: cm.issuesFound.Load(),
		}
		if cs.Invocations > 0 {
			cs.AvgTime = cs.TotalTime / time.Duration(cs.Invocations)
		}
		s.Checks[key.(string)] = cs
		return true
	})

	return s
}

// StridePassRate returns the fraction of examined strides that passed.
func (m *Metrics) StridePassRate() float64 {
	total := m.stridesTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.stridesValid.Load()) / float64(total)
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.validationsTotal.Store(0)
	m.validationsValid.Store(0)
	m.stridesTotal.Store(0)
	m.stridesValid.Store(0)
	m.validationTimeTotal.Store(0)
	m.validationTimeMin.Store(^uint64(0))
	m.validationTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)
	m.checkTiming.Range(func(key, _ any) bool {
		m.checkTiming.Delete(key)
		return true
	})
}
