package check

import (
	"context"
	"testing"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
)

func TestPhaseShapeCheck_Valid(t *testing.T) {
	pctx := testContext([]*dataset.Stride{
		gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.3,
		}),
		gridStride("SUB01", "level_walking", 1, 150, map[string]float64{
			"knee_flexion_angle_ipsi_rad": 0.4,
		}),
	}, nil)

	issues := NewPhaseShapeCheck().Validate(context.Background(), pctx)
	if len(issues) != 0 {
		t.Errorf("Validate() = %d issues; want 0: %v", len(issues), issues)
	}
}

func TestPhaseShapeCheck_WrongSampleCount(t *testing.T) {
	short := gridStride("SUB01", "level_walking", 2, 149, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	pctx := testContext([]*dataset.Stride{short}, nil)

	issues := NewPhaseShapeCheck().Validate(context.Background(), pctx)

	if len(issues) != 1 {
		t.Fatalf("Validate() = %d issues; want 1: %v", len(issues), issues)
	}
	issue := issues[0]
	if issue.Code != lv.IssueTypePhaseStructure {
		t.Errorf("Code = %s; want phase-structure", issue.Code)
	}
	if issue.Subject != "SUB01" || issue.Stride != 2 {
		t.Errorf("locus = %s/%d; want SUB01/2", issue.Subject, issue.Stride)
	}
}

func TestPhaseShapeCheck_OffGridPhase(t *testing.T) {
	s := gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	s.Phase[10] += 5 // push one sample off the grid

	pctx := testContext([]*dataset.Stride{s}, nil)

	issues := NewPhaseShapeCheck().Validate(context.Background(), pctx)
	if len(issues) != 1 {
		t.Fatalf("Validate() = %d issues; want 1: %v", len(issues), issues)
	}
}

func TestPhaseShapeCheck_NonMonotone(t *testing.T) {
	s := gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	// Swap two neighbouring samples; both stay near the grid but order breaks
	s.Phase[20], s.Phase[21] = s.Phase[21], s.Phase[20]

	pctx := testContext([]*dataset.Stride{s}, nil)

	issues := NewPhaseShapeCheck().Validate(context.Background(), pctx)
	if len(issues) != 1 {
		t.Fatalf("Validate() = %d issues; want 1: %v", len(issues), issues)
	}
}

func TestPhaseShapeCheck_NaNPhase(t *testing.T) {
	s := gridStride("SUB01", "level_walking", 0, 150, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	s.Phase[0] = nan

	pctx := testContext([]*dataset.Stride{s}, nil)

	issues := NewPhaseShapeCheck().Validate(context.Background(), pctx)
	if len(issues) != 1 {
		t.Fatalf("Validate() = %d issues; want 1: %v", len(issues), issues)
	}
}

func TestPhaseShapeCheck_CustomPoints(t *testing.T) {
	s := gridStride("SUB01", "level_walking", 0, 100, map[string]float64{
		"knee_flexion_angle_ipsi_rad": 0.3,
	})
	pctx := testContext([]*dataset.Stride{s}, nil)
	pctx.Options.PointsPerCycle = 100
	pctx.Options.PhaseTolerance = 100.0 / 100.0 / 2.0

	issues := NewPhaseShapeCheck().Validate(context.Background(), pctx)
	if len(issues) != 0 {
		t.Errorf("Validate() = %d issues; want 0: %v", len(issues), issues)
	}
}
