package locovalidator

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_RecordValidation(t *testing.T) {
	m := NewMetrics()

	m.RecordValidation(10*time.Millisecond, true)
	m.RecordValidation(30*time.Millisecond, false)
	m.RecordValidation(20*time.Millisecond, true)

	s := m.Snapshot()

	if s.ValidationsTotal != 3 {
		t.Errorf("ValidationsTotal = %d; want 3", s.ValidationsTotal)
	}
	if s.ValidationsValid != 2 {
		t.Errorf("ValidationsValid = %d; want 2", s.ValidationsValid)
	}
	if s.ValidationTimeMin != 10*time.Millisecond {
		t.Errorf("ValidationTimeMin = %v; want 10ms", s.ValidationTimeMin)
	}
	if s.ValidationTimeMax != 30*time.Millisecond {
		t.Errorf("ValidationTimeMax = %v; want 30ms", s.ValidationTimeMax)
	}
	if s.ValidationTimeAvg != 20*time.Millisecond {
		t.Errorf("ValidationTimeAvg = %v; want 20ms", s.ValidationTimeAvg)
	}
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	m := NewMetrics()
	s := m.Snapshot()

	if s.ValidationTimeMin != 0 {
		t.Errorf("ValidationTimeMin = %v; want 0 with no validations", s.ValidationTimeMin)
	}
	if s.CacheHitRate != 0 {
		t.Errorf("CacheHitRate = %v; want 0 with no lookups", s.CacheHitRate)
	}
}

func TestMetrics_Strides(t *testing.T) {
	m := NewMetrics()
	m.RecordStrides(100, 90)
	m.RecordStrides(100, 70)

	s := m.Snapshot()
	if s.StridesTotal != 200 {
		t.Errorf("StridesTotal = %d; want 200", s.StridesTotal)
	}
	if s.StridesValid != 160 {
		t.Errorf("StridesValid = %d; want 160", s.StridesValid)
	}
	if got := m.StridePassRate(); got != 0.8 {
		t.Errorf("StridePassRate() = %v; want 0.8", got)
	}
}

func TestMetrics_StridePassRate_NoData(t *testing.T) {
	m := NewMetrics()
	if got := m.StridePassRate(); got != 0 {
		t.Errorf("StridePassRate() = %v; want 0", got)
	}
}

func TestMetrics_Cache(t *testing.T) {
	m := NewMetrics()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	s := m.Snapshot()
	if s.CacheHits != 3 || s.CacheMisses != 1 {
		t.Errorf("cache counts = %d/%d; want 3/1", s.CacheHits, s.CacheMisses)
	}
	if s.CacheHitRate != 0.75 {
		t.Errorf("CacheHitRate = %v; want 0.75", s.CacheHitRate)
	}
}

func TestMetrics_RecordIssue(t *testing.T) {
	m := NewMetrics()
	m.RecordIssue(SeverityFatal)
	m.RecordIssue(SeverityError)
	m.RecordIssue(SeverityWarning)
	m.RecordIssue(SeverityInformation)

	s := m.Snapshot()
	if s.ErrorsTotal != 2 {
		t.Errorf("ErrorsTotal = %d; want 2", s.ErrorsTotal)
	}
	if s.WarningsTotal != 1 {
		t.Errorf("WarningsTotal = %d; want 1", s.WarningsTotal)
	}
	if s.InfosTotal != 1 {
		t.Errorf("InfosTotal = %d; want 1", s.InfosTotal)
	}
}

func TestMetrics_RecordCheck(t *testing.T) {
	m := NewMetrics()
	m.RecordCheck("ranges", 10*time.Millisecond, 2)
	m.RecordCheck("ranges", 20*time.Millisecond, 1)
	m.RecordCheck("schema", 5*time.Millisecond, 0)

	s := m.Snapshot()

	ranges, ok := s.Checks["ranges"]
	if !ok {
		t.Fatal("missing check snapshot for ranges")
	}
	if ranges.Invocations != 2 {
		t.Errorf("ranges invocations = %d; want 2", ranges.Invocations)
	}
	if ranges.IssuesFound != 3 {
		t.Errorf("ranges issues = %d; want 3", ranges.IssuesFound)
	}
	if ranges.AvgTime != 15*time.Millisecond {
		t.Errorf("ranges avg = %v; want 15ms", ranges.AvgTime)
	}

	if _, ok := s.Checks["schema"]; !ok {
		t.Error("missing check snapshot for schema")
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics()
	m.RecordValidation(time.Millisecond, true)
	m.RecordStrides(10, 10)
	m.RecordCheck("schema", time.Millisecond, 1)

	m.Reset()
	s := m.Snapshot()

	if s.ValidationsTotal != 0 || s.StridesTotal != 0 || len(s.Checks) != 0 {
		t.Errorf("Reset left data behind: %+v", s)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordValidation(time.Millisecond, j%2 == 0)
				m.RecordCheck("ranges", time.Microsecond, 1)
				m.RecordStrides(1, 1)
			}
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	if s.ValidationsTotal != 800 {
		t.Errorf("ValidationsTotal = %d; want 800", s.ValidationsTotal)
	}
	if s.StridesTotal != 800 {
		t.Errorf("StridesTotal = %d; want 800", s.StridesTotal)
	}
	if s.Checks["ranges"].Invocations != 800 {
		t.Errorf("check invocations = %d; want 800", s.Checks["ranges"].Invocations)
	}
}
