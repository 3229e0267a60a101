package benchmark

import (
	"context"
	"math"
	"testing"

	"github.com/jmontp/LocoHub-sub002/dataset"
)

// gridStride builds a 150-point stride with a constant knee value.
func gridStride(subject, task string, step int, knee float64) *dataset.Stride {
	s := &dataset.Stride{
		Subject:  subject,
		Task:     task,
		Step:     step,
		Features: map[string][]float64{"knee_flexion_angle_ipsi_rad": make([]float64, 150)},
	}
	for i := 0; i < 150; i++ {
		s.Phase = append(s.Phase, 100*float64(i)/150)
		s.Features["knee_flexion_angle_ipsi_rad"][i] = knee
	}
	return s
}

// trustedDataset spreads knee values 0.00 .. 0.99 over 100 strides.
func trustedDataset(task string) *dataset.Dataset {
	ds := &dataset.Dataset{Path: "trusted.parquet"}
	for i := 0; i < 100; i++ {
		ds.Strides = append(ds.Strides, gridStride("SUB01", task, i, float64(i)/100))
	}
	return ds
}

func TestDerive_PercentileRanges(t *testing.T) {
	ds := trustedDataset("level_walking")

	c := NewCreator()
	specs, err := c.Derive(context.Background(), ds)
	if err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("len(specs) = %d; want 1", len(specs))
	}

	ts := specs[0]
	if ts.Task != "level_walking" || ts.PointsPerCycle != 150 {
		t.Errorf("spec header = %s/%d; want level_walking/150", ts.Task, ts.PointsPerCycle)
	}
	if len(ts.Phases()) != 4 {
		t.Errorf("Phases() = %v; want the four default checkpoints", ts.Phases())
	}

	r, ok := ts.RangeAt(0, "knee_flexion_angle_ipsi_rad")
	if !ok {
		t.Fatal("no range at phase 0")
	}
	// p01 ~= 0.0099, p99 ~= 0.9801, span ~= 0.97, margin 10% each side
	if r.Min > 0.0 || r.Min < -0.2 {
		t.Errorf("Min = %v; want widened below p01", r.Min)
	}
	if r.Max < 1.0 || r.Max > 1.2 {
		t.Errorf("Max = %v; want widened above p99", r.Max)
	}

	if err := ts.Validate(); err != nil {
		t.Errorf("derived spec invalid: %v", err)
	}
}

func TestDerive_ConstantSignal(t *testing.T) {
	ds := &dataset.Dataset{Path: "flat.parquet"}
	for i := 0; i < 20; i++ {
		ds.Strides = append(ds.Strides, gridStride("SUB01", "level_walking", i, 0.5))
	}

	c := NewCreator()
	specs, err := c.Derive(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}

	r, _ := specs[0].RangeAt(0, "knee_flexion_angle_ipsi_rad")
	if r.Min >= 0.5 || r.Max <= 0.5 {
		t.Errorf("constant signal range [%v, %v] does not bracket 0.5", r.Min, r.Max)
	}
}

func TestDerive_SkipsNaNAndSmallSamples(t *testing.T) {
	ds := &dataset.Dataset{Path: "sparse.parquet"}
	for i := 0; i < 20; i++ {
		s := gridStride("SUB01", "level_walking", i, 0.5)
		if i >= 5 {
			// Only five strides carry finite values
			for j := range s.Features["knee_flexion_angle_ipsi_rad"] {
				s.Features["knee_flexion_angle_ipsi_rad"][j] = math.NaN()
			}
		}
		ds.Strides = append(ds.Strides, s)
	}

	c := NewCreator() // DefaultMinSamples = 10
	specs, err := c.Derive(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 0 {
		t.Errorf("len(specs) = %d; want 0 when below the sample floor", len(specs))
	}

	loose := NewCreator(WithMinSamples(3))
	specs, err = loose.Derive(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(specs) != 1 {
		t.Fatalf("len(specs) = %d with MinSamples(3); want 1", len(specs))
	}
}

func TestDerive_IgnoresNonStandardColumns(t *testing.T) {
	ds := &dataset.Dataset{Path: "mixed.parquet"}
	for i := 0; i < 20; i++ {
		s := gridStride("SUB01", "level_walking", i, 0.5)
		s.Features["knee_angle_left"] = make([]float64, 150)
		ds.Strides = append(ds.Strides, s)
	}

	specs, err := NewCreator().Derive(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := specs[0].RangeAt(0, "knee_angle_left"); ok {
		t.Error("non-standard column got a derived range")
	}
}

func TestDeriveTask(t *testing.T) {
	ds := trustedDataset("run")

	c := NewCreator()
	ts, err := c.DeriveTask(context.Background(), ds, "run")
	if err != nil {
		t.Fatalf("DeriveTask() error: %v", err)
	}
	if ts.Task != "run" {
		t.Errorf("Task = %q; want run", ts.Task)
	}

	if _, err := c.DeriveTask(context.Background(), ds, "moonwalk"); err == nil {
		t.Error("DeriveTask for absent task should fail")
	}
}

func TestDerive_EmptyDataset(t *testing.T) {
	c := NewCreator()
	if _, err := c.Derive(context.Background(), &dataset.Dataset{}); err == nil {
		t.Error("Derive on empty dataset should fail")
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.5, 3},
		{1, 5},
		{0.25, 2},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v; want %v", tt.p, got, tt.want)
		}
	}

	if got := percentile([]float64{7}, 0.5); got != 7 {
		t.Errorf("percentile of singleton = %v; want 7", got)
	}
}
