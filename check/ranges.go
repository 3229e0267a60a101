package check

import (
	"context"
	"fmt"
	"math"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/pipeline"
)

// RangesCheck validates checkpoint values against task validation ranges.
// For every stride, at each checkpoint phase of its task spec, every
// spec'd variable must fall inside its [min, max] range. Violations are
// recorded with full locus: task, variable, subject, stride and phase.
type RangesCheck struct{}

// NewRangesCheck creates a new checkpoint range check.
func NewRangesCheck() *RangesCheck {
	return &RangesCheck{}
}

// Name returns the check name.
func (c *RangesCheck) Name() string {
	return "ranges"
}

// Validate performs checkpoint range validation.
func (c *RangesCheck) Validate(ctx context.Context, pctx *pipeline.Context) []lv.Issue {
	var issues []lv.Issue

	if pctx.Dataset == nil {
		return issues
	}

	tolerance := 0.5
	if pctx.Options != nil && pctx.Options.PhaseTolerance > 0 {
		tolerance = pctx.Options.PhaseTolerance
	}
	requireSpec := pctx.Options != nil && pctx.Options.RequireSpec

	for _, task := range pctx.Tasks() {
		select {
		case <-ctx.Done():
			return issues
		default:
		}

		ts, ok := pctx.SpecFor(task)
		if !ok {
			if requireSpec {
				issues = append(issues, ErrorIssue(
					lv.IssueTypeMissingSpec,
					fmt.Sprintf("No validation ranges for task %q", task),
					task,
					c.Name(),
				))
			} else {
				issues = append(issues, InformationIssue(
					lv.IssueTypeMissingSpec,
					fmt.Sprintf("Task %q skipped: no validation ranges", task),
					task,
					c.Name(),
				))
			}
			continue
		}

		phases := ts.Phases()
		for _, s := range pctx.Strides(task) {
			if pctx.ShouldStop() {
				return issues
			}

			for _, phase := range phases {
				idx := s.SampleAt(float64(phase), tolerance)
				if idx < 0 {
					// Off-grid strides are reported by the phase-shape check
					continue
				}

				for name, r := range ts.Checkpoints[phase] {
					v := s.Value(name, idx)
					if math.IsNaN(v) {
						// Missing samples are reported by the completeness check
						continue
					}
					if !r.Contains(v) {
						issues = append(issues, lv.Error(lv.IssueTypeOutOfRange).
							Diagnostics(fmt.Sprintf("Value %.4f outside [%.4f, %.4f]", v, r.Min, r.Max)).
							Task(task).
							Variable(name).
							Stride(s.Subject, s.Step).
							AtPhase(float64(phase)).
							Check(c.Name()).
							Build())
					}
				}
			}
		}
	}

	return issues
}

// RangesCheckConfig returns the standard configuration for the ranges check.
func RangesCheckConfig() *pipeline.CheckConfig {
	return &pipeline.CheckConfig{
		Check:    NewRangesCheck(),
		Priority: pipeline.PriorityNormal,
		Parallel: true,
		Required: false,
		Enabled:  true,
	}
}
