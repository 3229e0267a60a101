package quality

import (
	"context"
	"math"
	"testing"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
)

func flatStride(subject, task string, step, points int, knee float64) *dataset.Stride {
	s := &dataset.Stride{
		Subject:  subject,
		Task:     task,
		Step:     step,
		Features: map[string][]float64{"knee_flexion_angle_ipsi_rad": make([]float64, points)},
	}
	for i := 0; i < points; i++ {
		s.Phase = append(s.Phase, 100*float64(i)/float64(points))
		s.Features["knee_flexion_angle_ipsi_rad"][i] = knee
	}
	return s
}

func walkingSpec(min, max float64) *spec.TaskSpec {
	ts := &spec.TaskSpec{
		Task:           "level_walking",
		PointsPerCycle: 150,
		Checkpoints:    make(map[int]spec.Checkpoint),
	}
	for _, phase := range spec.DefaultCheckpoints {
		ts.Checkpoints[phase] = spec.Checkpoint{
			"knee_flexion_angle_ipsi_rad": {Min: min, Max: max},
		}
	}
	return ts
}

func testDataset(strides ...*dataset.Stride) *dataset.Dataset {
	return &dataset.Dataset{
		Path:    "gait.parquet",
		Columns: []string{"subject", "task", "step", "phase_percent", "knee_flexion_angle_ipsi_rad"},
		Strides: strides,
	}
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		rate float64
		want Grade
	}{
		{1.0, GradeExcellent},
		{0.95, GradeExcellent},
		{0.90, GradeGood},
		{0.75, GradeFair},
		{0.60, GradePoor},
		{0.10, GradeFailing},
	}
	for _, tt := range tests {
		if got := GradeFor(tt.rate); got != tt.want {
			t.Errorf("GradeFor(%v) = %s; want %s", tt.rate, got, tt.want)
		}
	}
}

func TestAssess_CleanDataset(t *testing.T) {
	ds := testDataset(
		flatStride("SUB01", "level_walking", 0, 150, 0.3),
		flatStride("SUB01", "level_walking", 1, 150, 0.5),
	)

	a := NewAssessor()
	got, err := a.Assess(context.Background(), ds, map[string]*spec.TaskSpec{
		"level_walking": walkingSpec(0.0, 1.0),
	})
	if err != nil {
		t.Fatalf("Assess() error: %v", err)
	}

	if got.Strides != 2 || got.ValidStrides != 2 {
		t.Errorf("strides total/valid = %d/%d; want 2/2", got.Strides, got.ValidStrides)
	}
	if got.PassRate != 1.0 {
		t.Errorf("PassRate = %v; want 1.0", got.PassRate)
	}
	if got.Grade != GradeExcellent {
		t.Errorf("Grade = %s; want A", got.Grade)
	}
	if got.Coverage != 1.0 {
		t.Errorf("Coverage = %v; want 1.0", got.Coverage)
	}

	if len(got.Tasks) != 1 {
		t.Fatalf("len(Tasks) = %d; want 1", len(got.Tasks))
	}
	tq := got.Tasks[0]
	if !tq.HasSpec || tq.PassRate != 1.0 {
		t.Errorf("task quality = %+v", tq)
	}
	if len(tq.Variables) != 1 || tq.Variables[0].Violations != 0 {
		t.Errorf("variables = %+v", tq.Variables)
	}
}

func TestAssess_Violations(t *testing.T) {
	ds := testDataset(
		flatStride("SUB01", "level_walking", 0, 150, 0.3),
		flatStride("SUB01", "level_walking", 1, 150, 7.0), // every checkpoint out
	)

	a := NewAssessor()
	got, err := a.Assess(context.Background(), ds, map[string]*spec.TaskSpec{
		"level_walking": walkingSpec(0.0, 1.0),
	})
	if err != nil {
		t.Fatal(err)
	}

	if got.ValidStrides != 1 {
		t.Errorf("ValidStrides = %d; want 1", got.ValidStrides)
	}
	if got.PassRate != 0.5 {
		t.Errorf("PassRate = %v; want 0.5", got.PassRate)
	}
	if got.Grade != GradePoor {
		t.Errorf("Grade = %s; want D", got.Grade)
	}

	vq := got.Tasks[0].Variables[0]
	if vq.Violations == 0 {
		t.Error("Violations = 0; want > 0")
	}
	if vq.PassRate >= 1.0 {
		t.Errorf("variable PassRate = %v; want < 1", vq.PassRate)
	}
}

func TestAssess_NoSpec(t *testing.T) {
	ds := testDataset(flatStride("SUB01", "moonwalk", 0, 150, 0.3))

	a := NewAssessor()
	got, err := a.Assess(context.Background(), ds, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Tasks) != 1 || got.Tasks[0].HasSpec {
		t.Errorf("Tasks = %+v; want one task without spec", got.Tasks)
	}
	// No covered strides: pass rate 0 and grade F by construction
	if got.PassRate != 0 {
		t.Errorf("PassRate = %v; want 0", got.PassRate)
	}
	if got.Coverage != 0 {
		t.Errorf("Coverage = %v; want 0", got.Coverage)
	}
}

func TestAssess_NonDefaultGrid(t *testing.T) {
	// 50 points per cycle: checkpoint phases 25 and 75 sit a full grid
	// step from the nearest samples (24 and 74)
	ds := testDataset(flatStride("SUB01", "level_walking", 0, 50, 0.3))
	specs := map[string]*spec.TaskSpec{
		"level_walking": walkingSpec(0.0, 1.0),
	}

	tuned, err := NewAssessor(lv.WithPointsPerCycle(50)).Assess(context.Background(), ds, specs)
	if err != nil {
		t.Fatal(err)
	}
	if tuned.ValidStrides != 1 || tuned.PassRate != 1.0 {
		t.Errorf("tuned valid/passRate = %d/%v; want 1/1.0", tuned.ValidStrides, tuned.PassRate)
	}
	if tuned.Grade != GradeExcellent {
		t.Errorf("tuned Grade = %s; want A", tuned.Grade)
	}

	// With the default 150-point tolerance those checkpoints have no
	// matching sample and every stride fails
	mismatched, err := NewAssessor().Assess(context.Background(), ds, specs)
	if err != nil {
		t.Fatal(err)
	}
	if mismatched.ValidStrides != 0 {
		t.Errorf("mismatched ValidStrides = %d; want 0", mismatched.ValidStrides)
	}
}

func TestAssess_NaNShare(t *testing.T) {
	s := flatStride("SUB01", "level_walking", 0, 150, 0.3)
	for i := 0; i < 75; i++ {
		s.Features["knee_flexion_angle_ipsi_rad"][i] = math.NaN()
	}
	ds := testDataset(s)

	a := NewAssessor()
	got, err := a.Assess(context.Background(), ds, map[string]*spec.TaskSpec{
		"level_walking": walkingSpec(0.0, 1.0),
	})
	if err != nil {
		t.Fatal(err)
	}

	vq := got.Tasks[0].Variables[0]
	if vq.NaNShare != 0.5 {
		t.Errorf("NaNShare = %v; want 0.5", vq.NaNShare)
	}
}
