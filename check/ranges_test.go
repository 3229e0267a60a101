package check

import (
	"context"
	"testing"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
)

func TestRangesCheck_AllInRange(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
		}),
	}, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})

	issues := NewRangesCheck().Validate(context.Background(), pctx)
	if len(issues) != 0 {
		t.Errorf("Validate() = %d issues; want 0: %v", len(issues), issues)
	}
}

func TestRangesCheck_OutOfRange(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "level_walking", 3, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 2.5, // above every checkpoint max
		}),
	}, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})

	issues := NewRangesCheck().Validate(context.Background(), pctx)

	out := issuesByCode(issues, lv.IssueTypeOutOfRange)
	if len(out) != len(spec.DefaultCheckpoints) {
		t.Fatalf("out-of-range issues = %d; want %d: %v", len(out), len(spec.DefaultCheckpoints), issues)
	}

	issue := out[0]
	if issue.Task != "level_walking" || issue.Variable != "knee_flexion_angle_ipsi_rad" {
		t.Errorf("locus task/variable = %s/%s", issue.Task, issue.Variable)
	}
	if issue.Subject != "SUB01" || issue.Stride != 3 {
		t.Errorf("locus subject/stride = %s/%d; want SUB01/3", issue.Subject, issue.Stride)
	}
	if issue.PhasePercent < 0 {
		t.Error("out-of-range issue should carry its checkpoint phase")
	}
	if issue.Check != "ranges" {
		t.Errorf("Check = %q; want ranges", issue.Check)
	}
}

func TestRangesCheck_NaNSkipped(t *testing.T) {
	s := gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	for i := range s.Features["knee_flexion_angle_ipsi_rad"] {
		s.Features["knee_flexion_angle_ipsi_rad"][i] = nan
	}

	pctx := testContext([]*dataset.Stride{s}, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})

	issues := NewRangesCheck().Validate(context.Background(), pctx)
	if len(issuesByCode(issues, lv.IssueTypeOutOfRange)) != 0 {
		t.Errorf("NaN values should not be range violations: %v", issues)
	}
}

func TestRangesCheck_MissingSpec(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "moonwalk", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
		}),
	}, nil)

	issues := NewRangesCheck().Validate(context.Background(), pctx)

	missing := issuesByCode(issues, lv.IssueTypeMissingSpec)
	if len(missing) != 1 {
		t.Fatalf("missing-spec issues = %d; want 1: %v", len(missing), issues)
	}
	if missing[0].Severity != lv.SeverityInformation {
		t.Errorf("Severity = %s; want information when specs are optional", missing[0].Severity)
	}
}

func TestRangesCheck_RequireSpec(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "moonwalk", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
		}),
	}, nil)
	pctx.Options.RequireSpec = true

	issues := NewRangesCheck().Validate(context.Background(), pctx)

	missing := issuesByCode(issues, lv.IssueTypeMissingSpec)
	if len(missing) != 1 || !missing[0].IsError() {
		t.Errorf("missing spec should be an error with RequireSpec: %v", issues)
	}
}

func TestRangesCheck_MaxErrorsStops(t *testing.T) {
	var strides []*dataset.Stride
	for step := 0; step < 10; step++ {
		strides = append(strides, gridStride("SUB01", "level_walking", step, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 5.0,
		}))
	}

	pctx := testContext(strides, map[string]*spec.TaskSpec{
		"level_walking": kneeSpec("level_walking", 0.0, 1.0),
	})
	pctx.Options.MaxErrors = 1
	pctx.Result.AddIssue(lv.Error(lv.IssueTypeStructure).Build())

	issues := NewRangesCheck().Validate(context.Background(), pctx)
	if len(issues) != 0 {
		t.Errorf("check should stop when max errors already reached; got %d issues", len(issues))
	}
}
