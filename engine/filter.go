package engine

import (
	"context"
	"math"

	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
)

// StrideVerdict is the classification of a single stride.
type StrideVerdict struct {
	Subject string `json:"subject"`
	Task    string `json:"task"`
	Step    int    `json:"step"`

	// Valid is true if the stride passed every applicable check
	Valid bool `json:"valid"`

	// FailingChecks names the checks the stride failed
	FailingChecks []string `json:"failingChecks,omitempty"`

	// Violations is the number of individual checkpoint violations
	Violations int `json:"violations,omitempty"`
}

// FilterResult is the outcome of classifying every stride in a dataset.
type FilterResult struct {
	// Dataset is the source file path
	Dataset string `json:"dataset"`

	// Total is the number of strides examined
	Total int `json:"total"`

	// Passed is the number of valid strides
	Passed int `json:"passed"`

	// Failed is the number of invalid strides
	Failed int `json:"failed"`

	// Skipped is the number of strides whose task has no validation ranges
	Skipped int `json:"skipped"`

	// Verdicts holds the per-stride classifications in dataset order
	Verdicts []StrideVerdict `json:"verdicts"`

	// passed holds the valid strides for writing a filtered dataset
	passed []*dataset.Stride
}

// PassRate returns the fraction of examined strides that passed.
// Skipped strides count as passed.
func (fr *FilterResult) PassRate() float64 {
	if fr.Total == 0 {
		return 0
	}
	return float64(fr.Passed+fr.Skipped) / float64(fr.Total)
}

// PassedStrides returns the strides that passed (including skipped ones),
// suitable for writing a filtered dataset.
func (fr *FilterResult) PassedStrides() []*dataset.Stride {
	return fr.passed
}

// FilterStrides loads a dataset and classifies every stride against its
// task's validation ranges and the expected phase structure. Strides of
// tasks without validation ranges are skipped and kept.
func (v *Validator) FilterStrides(ctx context.Context, path string) (*FilterResult, error) {
	ds, err := dataset.ReadAll(ctx, path)
	if err != nil {
		return nil, err
	}
	return v.FilterDatasetStrides(ctx, ds)
}

// FilterDatasetStrides classifies the strides of an already loaded dataset.
func (v *Validator) FilterDatasetStrides(ctx context.Context, ds *dataset.Dataset) (*FilterResult, error) {
	fr := &FilterResult{
		Dataset:  ds.Path,
		Total:    len(ds.Strides),
		Verdicts: make([]StrideVerdict, 0, len(ds.Strides)),
	}

	specs := make(map[string]*spec.TaskSpec)
	for _, task := range ds.Tasks() {
		if v.specs == nil {
			continue
		}
		if ts, err := v.specs.Load(task); err == nil {
			specs[task] = ts
		}
	}

	for _, s := range ds.Strides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		verdict := StrideVerdict{
			Subject: s.Subject,
			Task:    s.Task,
			Step:    s.Step,
			Valid:   true,
		}

		ts, hasSpec := specs[s.Task]
		if !hasSpec {
			fr.Skipped++
			fr.passed = append(fr.passed, s)
			fr.Verdicts = append(fr.Verdicts, verdict)
			continue
		}

		if !v.strideOnGrid(s) {
			verdict.Valid = false
			verdict.FailingChecks = append(verdict.FailingChecks, "phase-shape")
		}

		if n := v.strideViolations(s, ts); n > 0 {
			verdict.Valid = false
			verdict.Violations = n
			verdict.FailingChecks = append(verdict.FailingChecks, "ranges")
		}

		if verdict.Valid {
			fr.Passed++
			fr.passed = append(fr.passed, s)
		} else {
			fr.Failed++
		}
		fr.Verdicts = append(fr.Verdicts, verdict)
	}

	v.metrics.RecordStrides(fr.Total, fr.Passed+fr.Skipped)

	return fr, nil
}

// strideOnGrid reports whether the stride has the expected sample count
// and an intact uniform phase grid.
func (v *Validator) strideOnGrid(s *dataset.Stride) bool {
	points := v.options.PointsPerCycle
	if s.Len() != points {
		return false
	}
	for i, p := range s.Phase {
		want := 100 * float64(i) / float64(points)
		if math.IsNaN(p) || math.Abs(p-want) > v.options.PhaseTolerance {
			return false
		}
	}
	return true
}

// strideViolations counts checkpoint range violations for one stride.
func (v *Validator) strideViolations(s *dataset.Stride, ts *spec.TaskSpec) int {
	violations := 0
	for _, phase := range ts.Phases() {
		idx := s.SampleAt(float64(phase), v.options.PhaseTolerance)
		if idx < 0 {
			continue
		}
		for name, r := range ts.Checkpoints[phase] {
			value := s.Value(name, idx)
			if math.IsNaN(value) {
				continue
			}
			if !r.Contains(value) {
				violations++
			}
		}
	}
	return violations
}
