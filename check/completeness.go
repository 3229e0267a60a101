package check

import (
	"context"
	"fmt"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/pipeline"
)

// CompletenessCheck validates data completeness and spec coverage.
// It checks, per task:
// - Spec'd variables missing from the dataset (error)
// - Dataset variables with no validation ranges (warning)
// - Per-variable NaN density above the configured threshold (warning)
type CompletenessCheck struct{}

// NewCompletenessCheck creates a new completeness check.
func NewCompletenessCheck() *CompletenessCheck {
	return &CompletenessCheck{}
}

// Name returns the check name.
func (c *CompletenessCheck) Name() string {
	return "completeness"
}

// Validate performs completeness validation.
func (c *CompletenessCheck) Validate(ctx context.Context, pctx *pipeline.Context) []lv.Issue {
	var issues []lv.Issue

	if pctx.Dataset == nil {
		return issues
	}

	maxShare := 0.05
	if pctx.Options != nil {
		maxShare = pctx.Options.MaxNaNShare
	}

	features := pctx.Dataset.Features()
	featureSet := make(map[string]bool, len(features))
	for _, f := range features {
		featureSet[f] = true
	}

	for _, task := range pctx.Tasks() {
		select {
		case <-ctx.Done():
			return issues
		default:
		}

		strides := pctx.Strides(task)

		if ts, ok := pctx.SpecFor(task); ok {
			specVars := ts.Variables()
			specSet := make(map[string]bool, len(specVars))
			for _, name := range specVars {
				specSet[name] = true
			}

			for _, name := range specVars {
				if !featureSet[name] {
					issues = append(issues, lv.Error(lv.IssueTypeCoverage).
						Diagnostics(fmt.Sprintf("Spec'd variable %q is missing from the dataset", name)).
						Task(task).
						Variable(name).
						Check(c.Name()).
						Build())
				}
			}

			for _, name := range features {
				if !specSet[name] {
					issues = append(issues, lv.Warning(lv.IssueTypeCoverage).
						Diagnostics(fmt.Sprintf("Variable %q has no validation ranges", name)).
						Task(task).
						Variable(name).
						Check(c.Name()).
						Build())
				}
			}
		}

		for _, name := range features {
			total, bad := 0, 0
			for _, s := range strides {
				vals := s.Features[name]
				total += len(vals)
				bad += countNonFinite(vals)
			}
			if total == 0 {
				continue
			}
			share := float64(bad) / float64(total)
			if share > maxShare {
				issues = append(issues, lv.Warning(lv.IssueTypeNaN).
					Diagnostics(fmt.Sprintf("%.1f%% non-finite samples (threshold %.1f%%)", 100*share, 100*maxShare)).
					Task(task).
					Variable(name).
					Check(c.Name()).
					Build())
			}
		}
	}

	return issues
}

// CompletenessCheckConfig returns the standard configuration for the
// completeness check.
func CompletenessCheckConfig() *pipeline.CheckConfig {
	return &pipeline.CheckConfig{
		Check:    NewCompletenessCheck(),
		Priority: pipeline.PriorityLate,
		Parallel: true,
		Required: false,
		Enabled:  true,
	}
}
