package check

import (
	"context"
	"testing"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
)

func TestCompletenessCheck_Clean(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
		}),
	}, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})

	issues := NewCompletenessCheck().Validate(context.Background(), pctx)
	if len(issues) != 0 {
		t.Errorf("Validate() = %d issues; want 0: %v", len(issues), issues)
	}
}

func TestCompletenessCheck_SpecVariableMissing(t *testing.T) {
	ts := kneeSpec("level_walking", 0.0, 1.0)
	ts.SetRange(0, "hip_flexion_angle_ipsi_rad", spec.Range{Min: -1, Max: 1})

	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
		}),
	}, map[string]*spec.TaskSpec{"level_walking": ts})

	issues := NewCompletenessCheck().Validate(context.Background(), pctx)

	coverage := issuesByCode(issues, lv.IssueTypeCoverage)
	if len(coverage) != 1 {
		t.Fatalf("coverage issues = %d; want 1: %v", len(coverage), issues)
	}
	if !coverage[0].IsError() {
		t.Error("spec'd variable missing from dataset should be an error")
	}
	if coverage[0].Variable != "hip_flexion_angle_ipsi_rad" {
		t.Errorf("Variable = %q; want hip_flexion_angle_ipsi_rad", coverage[0].Variable)
	}
}

func TestCompletenessCheck_UnspecdVariable(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
			"hip_flexion_angle_ipsi_rad":  0.1,
		}),
	}, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})

	issues := NewCompletenessCheck().Validate(context.Background(), pctx)

	coverage := issuesByCode(issues, lv.IssueTypeCoverage)
	if len(coverage) != 1 {
		t.Fatalf("coverage issues = %d; want 1: %v", len(coverage), issues)
	}
	if !coverage[0].IsWarning() {
		t.Error("variable without ranges should be a warning")
	}
}

func TestCompletenessCheck_NaNDensity(t *testing.T) {
	s := gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	// 15 of 150 samples non-finite: 10%, above the 5% default
	for i := 0; i < 15; i++ {
		s.Features["knee_flexion_angle_ipsi_rad"][i] = nan
	}

	pctx := testContext([]*dataset.Stride{s}, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})

	issues := NewCompletenessCheck().Validate(context.Background(), pctx)

	dense := issuesByCode(issues, lv.IssueTypeNaN)
	if len(dense) != 1 {
		t.Fatalf("nan-density issues = %d; want 1: %v", len(dense), issues)
	}
	if !dense[0].IsWarning() {
		t.Error("NaN density should be a warning")
	}
}

func TestCompletenessCheck_NaNUnderThreshold(t *testing.T) {
	s := gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	// 3 of 150 samples: 2%, under the 5% default
	for i := 0; i < 3; i++ {
		s.Features["knee_flexion_angle_ipsi_rad"][i] = nan
	}

	pctx := testContext([]*dataset.Stride{s}, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})

	issues := NewCompletenessCheck().Validate(context.Background(), pctx)
	if len(issuesByCode(issues, lv.IssueTypeNaN)) != 0 {
		t.Errorf("NaN share under threshold should not be flagged: %v", issues)
	}
}

func TestCompletenessCheck_NoSpecNoCoverage(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "moonwalk", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
		}),
	}, nil)

	issues := NewCompletenessCheck().Validate(context.Background(), pctx)
	if len(issuesByCode(issues, lv.IssueTypeCoverage)) != 0 {
		t.Errorf("tasks without specs should not produce coverage issues: %v", issues)
	}
}
