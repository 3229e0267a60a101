// Package quality provides aggregate quality assessment of validated
// phase-indexed datasets.
//
// Where validation answers "which values are wrong", assessment answers
// "how good is this dataset overall": per-task and per-variable pass
// rates, NaN share, checkpoint coverage and a summary grade.
package quality

import (
	"context"
	"math"
	"sort"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
)

// Grade is a coarse summary of dataset quality.
type Grade string

const (
	GradeExcellent Grade = "A"
	GradeGood      Grade = "B"
	GradeFair      Grade = "C"
	GradePoor      Grade = "D"
	GradeFailing   Grade = "F"
)

// GradeFor maps a stride pass rate to a grade.
func GradeFor(passRate float64) Grade {
	switch {
	case passRate >= 0.95:
		return GradeExcellent
	case passRate >= 0.85:
		return GradeGood
	case passRate >= 0.70:
		return GradeFair
	case passRate >= 0.50:
		return GradePoor
	default:
		return GradeFailing
	}
}

// VariableQuality aggregates checkpoint outcomes for one variable.
type VariableQuality struct {
	Variable string `json:"variable"`

	// Checked is the number of checkpoint values evaluated
	Checked int `json:"checked"`

	// Violations is the number of values outside their range
	Violations int `json:"violations"`

	// PassRate is the fraction of checked values inside their range
	PassRate float64 `json:"passRate"`

	// NaNShare is the fraction of non-finite samples across all strides
	NaNShare float64 `json:"nanShare"`
}

// TaskQuality aggregates outcomes for one locomotion task.
type TaskQuality struct {
	Task string `json:"task"`

	// HasSpec is false when the task has no validation ranges
	HasSpec bool `json:"hasSpec"`

	// Strides is the number of strides for this task
	Strides int `json:"strides"`

	// ValidStrides is the number with no checkpoint violations
	ValidStrides int `json:"validStrides"`

	// PassRate is ValidStrides / Strides
	PassRate float64 `json:"passRate"`

	// Variables holds per-variable aggregates, sorted by name
	Variables []VariableQuality `json:"variables,omitempty"`
}

// Assessment is the overall quality picture of a dataset.
type Assessment struct {
	Dataset string `json:"dataset"`

	// Strides is the total number of strides examined
	Strides int `json:"strides"`

	// ValidStrides is the number with no violations across all tasks
	ValidStrides int `json:"validStrides"`

	// PassRate is ValidStrides / Strides over tasks with specs
	PassRate float64 `json:"passRate"`

	// Coverage is the fraction of feature variables with validation ranges
	Coverage float64 `json:"coverage"`

	// Grade summarizes the pass rate
	Grade Grade `json:"grade"`

	// Tasks holds per-task aggregates, sorted by task name
	Tasks []TaskQuality `json:"tasks"`
}

// Assessor computes quality assessments.
type Assessor struct {
	options *lv.Options
}

// NewAssessor creates an Assessor.
func NewAssessor(opts ...lv.Option) *Assessor {
	options := lv.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Assessor{options: options}
}

// Assess evaluates a loaded dataset against the given task specs.
// Tasks absent from specs are reported with HasSpec false and do not
// count toward the pass rate.
func (a *Assessor) Assess(ctx context.Context, ds *dataset.Dataset, specs map[string]*spec.TaskSpec) (*Assessment, error) {
	assessment := &Assessment{
		Dataset: ds.Path,
		Strides: len(ds.Strides),
	}

	features := ds.Features()
	specd := make(map[string]bool)

	coveredStrides := 0
	byTask := ds.ByTask()
	for _, task := range ds.Tasks() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		strides := byTask[task]
		tq := TaskQuality{Task: task, Strides: len(strides)}

		ts, ok := specs[task]
		if !ok {
			assessment.Tasks = append(assessment.Tasks, tq)
			continue
		}
		tq.HasSpec = true

		for _, name := range ts.Variables() {
			specd[name] = true
		}

		varStats := make(map[string]*VariableQuality)
		for _, s := range strides {
			if a.assessStride(s, ts, varStats) {
				tq.ValidStrides++
			}
		}
		if tq.Strides > 0 {
			tq.PassRate = float64(tq.ValidStrides) / float64(tq.Strides)
		}

		tq.Variables = a.collectVariables(strides, varStats)

		coveredStrides += tq.Strides
		assessment.ValidStrides += tq.ValidStrides
		assessment.Tasks = append(assessment.Tasks, tq)
	}

	if coveredStrides > 0 {
		assessment.PassRate = float64(assessment.ValidStrides) / float64(coveredStrides)
	}
	if len(features) > 0 {
		covered := 0
		for _, name := range features {
			if specd[name] {
				covered++
			}
		}
		assessment.Coverage = float64(covered) / float64(len(features))
	}
	assessment.Grade = GradeFor(assessment.PassRate)

	return assessment, nil
}

// assessStride evaluates one stride's checkpoints, updating per-variable
// aggregates, and reports whether the stride is violation free.
func (a *Assessor) assessStride(s *dataset.Stride, ts *spec.TaskSpec, varStats map[string]*VariableQuality) bool {
	valid := true
	for _, phase := range ts.Phases() {
		idx := s.SampleAt(float64(phase), a.options.PhaseTolerance)
		if idx < 0 {
			valid = false
			continue
		}
		for name, r := range ts.Checkpoints[phase] {
			vq, ok := varStats[name]
			if !ok {
				vq = &VariableQuality{Variable: name}
				varStats[name] = vq
			}

			value := s.Value(name, idx)
			if math.IsNaN(value) {
				continue
			}
			vq.Checked++
			if !r.Contains(value) {
				vq.Violations++
				valid = false
			}
		}
	}
	return valid
}

// collectVariables finalizes per-variable aggregates with NaN shares.
func (a *Assessor) collectVariables(strides []*dataset.Stride, varStats map[string]*VariableQuality) []VariableQuality {
	names := make([]string, 0, len(varStats))
	for name := range varStats {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]VariableQuality, 0, len(names))
	for _, name := range names {
		vq := varStats[name]
		if vq.Checked > 0 {
			vq.PassRate = float64(vq.Checked-vq.Violations) / float64(vq.Checked)
		}

		total, bad := 0, 0
		for _, s := range strides {
			for _, v := range s.Features[name] {
				total++
				if math.IsNaN(v) || math.IsInf(v, 0) {
					bad++
				}
			}
		}
		if total > 0 {
			vq.NaNShare = float64(bad) / float64(total)
		}

		out = append(out, *vq)
	}
	return out
}
