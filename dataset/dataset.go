// Package dataset reads and writes standardized phase-indexed locomotion
// datasets stored as parquet files.
//
// A dataset is a flat table with the meta columns subject, task, step and
// phase_percent plus any number of biomechanical feature columns. A stride
// is the run of points-per-cycle consecutive rows sharing one
// (subject, task, step) key, phase-sorted 0-100.
package dataset

import (
	"math"
	"sort"

	"github.com/jmontp/LocoHub-sub002/units"
)

// Stride is one gait cycle of phase-indexed samples.
type Stride struct {
	Subject string
	Task    string
	Step    int

	// Phase holds the phase_percent value of each sample
	Phase []float64

	// Features maps feature column name to per-sample values,
	// aligned with Phase
	Features map[string][]float64
}

// Len returns the number of samples in the stride.
func (s *Stride) Len() int {
	return len(s.Phase)
}

// SampleAt returns the index of the sample closest to the target phase,
// or -1 if no sample falls within tolerance.
func (s *Stride) SampleAt(phasePercent, tolerance float64) int {
	best := -1
	bestDist := tolerance
	for i, p := range s.Phase {
		d := math.Abs(p - phasePercent)
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Value returns the value of a feature at a sample index.
// Missing features and out-of-bounds indices return NaN.
func (s *Stride) Value(feature string, idx int) float64 {
	vals, ok := s.Features[feature]
	if !ok || idx < 0 || idx >= len(vals) {
		return math.NaN()
	}
	return vals[idx]
}

// Dataset is a fully loaded phase-indexed dataset.
type Dataset struct {
	// Path is the source file path
	Path string

	// Columns are all leaf columns in file order
	Columns []string

	// Strides are all gait cycles in file order
	Strides []*Stride
}

// Features returns the non-meta columns, in file order.
func (d *Dataset) Features() []string {
	return units.FeatureColumns(d.Columns)
}

// Tasks returns the distinct tasks present, sorted.
func (d *Dataset) Tasks() []string {
	seen := make(map[string]bool)
	for _, s := range d.Strides {
		seen[s.Task] = true
	}
	tasks := make([]string, 0, len(seen))
	for task := range seen {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	return tasks
}

// Subjects returns the distinct subjects present, sorted.
func (d *Dataset) Subjects() []string {
	seen := make(map[string]bool)
	for _, s := range d.Strides {
		seen[s.Subject] = true
	}
	subjects := make([]string, 0, len(seen))
	for subject := range seen {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// ByTask groups strides by task, preserving file order within each task.
func (d *Dataset) ByTask() map[string][]*Stride {
	groups := make(map[string][]*Stride)
	for _, s := range d.Strides {
		groups[s.Task] = append(groups[s.Task], s)
	}
	return groups
}

// HasColumn reports whether a column exists in the dataset.
func (d *Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}
