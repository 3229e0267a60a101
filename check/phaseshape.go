package check

import (
	"context"
	"fmt"
	"math"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/pipeline"
)

// PhaseShapeCheck validates the phase structure of every stride.
// Each stride must have exactly points-per-cycle samples, and its
// phase column must start at 0 and increase on the uniform grid
// i*100/points. One issue is reported per malformed stride.
type PhaseShapeCheck struct{}

// NewPhaseShapeCheck creates a new phase structure check.
func NewPhaseShapeCheck() *PhaseShapeCheck {
	return &PhaseShapeCheck{}
}

// Name returns the check name.
func (c *PhaseShapeCheck) Name() string {
	return "phase-shape"
}

// Validate performs phase structure validation.
func (c *PhaseShapeCheck) Validate(ctx context.Context, pctx *pipeline.Context) []lv.Issue {
	var issues []lv.Issue

	if pctx.Dataset == nil {
		return issues
	}

	points := pctx.PointsPerCycle()
	tolerance := 100.0 / float64(points) / 2.0
	if pctx.Options != nil && pctx.Options.PhaseTolerance > 0 {
		tolerance = pctx.Options.PhaseTolerance
	}

	for _, s := range pctx.Dataset.Strides {
		select {
		case <-ctx.Done():
			return issues
		default:
		}
		if pctx.ShouldStop() {
			return issues
		}

		if diag := c.inspect(s, points, tolerance); diag != "" {
			issues = append(issues, lv.Error(lv.IssueTypePhaseStructure).
				Diagnostics(diag).
				Task(s.Task).
				Stride(s.Subject, s.Step).
				Check(c.Name()).
				Build())
		}
	}

	return issues
}

// inspect returns a diagnostic for the first structural problem found,
// or "" if the stride is well formed.
func (c *PhaseShapeCheck) inspect(s *dataset.Stride, points int, tolerance float64) string {
	if s.Len() != points {
		return fmt.Sprintf("Stride has %d samples; want %d", s.Len(), points)
	}

	for i, p := range s.Phase {
		if math.IsNaN(p) {
			return fmt.Sprintf("Phase is NaN at sample %d", i)
		}
		want := 100 * float64(i) / float64(points)
		if math.Abs(p-want) > tolerance {
			return fmt.Sprintf("Phase %.3f at sample %d is off the uniform grid (want %.3f)", p, i, want)
		}
		if i > 0 && p <= s.Phase[i-1] {
			return fmt.Sprintf("Phase is not increasing at sample %d (%.3f after %.3f)", i, p, s.Phase[i-1])
		}
	}

	return ""
}

// PhaseShapeCheckConfig returns the standard configuration for the
// phase structure check.
func PhaseShapeCheckConfig() *pipeline.CheckConfig {
	return &pipeline.CheckConfig{
		Check:    NewPhaseShapeCheck(),
		Priority: pipeline.PriorityEarly,
		Parallel: true,
		Required: false,
		Enabled:  true,
	}
}
