// Package spec defines validation range specifications and the manager
// that resolves them by task.
//
// A range spec is authored as a Markdown document, one per locomotion
// task, carrying a fenced YAML block that maps checkpoint phases (percent
// gait cycle) to per-variable min/max ranges. The Markdown prose around
// the block documents provenance and tuning decisions; the YAML block is
// the machine-readable payload.
package spec

import (
	"fmt"
	"math"
	"sort"
)

// Range is an inclusive [Min, Max] validation interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v falls inside the range.
// Non-finite values never pass.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= r.Min && v <= r.Max
}

// Checkpoint maps variable names to their allowed range at one phase.
type Checkpoint map[string]Range

// TaskSpec holds the validation ranges for a single locomotion task.
type TaskSpec struct {
	// Task is the task name, e.g. "level_walking"
	Task string `yaml:"task"`

	// PointsPerCycle is the expected sample count per gait cycle
	PointsPerCycle int `yaml:"points_per_cycle"`

	// Checkpoints maps phase percent (0-100) to per-variable ranges
	Checkpoints map[int]Checkpoint `yaml:"checkpoints"`

	// Notes is the Markdown prose surrounding the payload block
	Notes string `yaml:"-"`
}

// DefaultCheckpoints are the phases validated when a spec doesn't
// declare its own.
var DefaultCheckpoints = []int{0, 25, 50, 75}

// Phases returns the checkpoint phases in ascending order.
func (s *TaskSpec) Phases() []int {
	phases := make([]int, 0, len(s.Checkpoints))
	for p := range s.Checkpoints {
		phases = append(phases, p)
	}
	sort.Ints(phases)
	return phases
}

// Variables returns the sorted union of variables across all checkpoints.
func (s *TaskSpec) Variables() []string {
	seen := make(map[string]bool)
	for _, cp := range s.Checkpoints {
		for name := range cp {
			seen[name] = true
		}
	}
	vars := make([]string, 0, len(seen))
	for name := range seen {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return vars
}

// RangeAt returns the range for a variable at a checkpoint phase.
func (s *TaskSpec) RangeAt(phase int, variable string) (Range, bool) {
	cp, ok := s.Checkpoints[phase]
	if !ok {
		return Range{}, false
	}
	r, ok := cp[variable]
	return r, ok
}

// SetRange adds or replaces the range for a variable at a checkpoint phase.
func (s *TaskSpec) SetRange(phase int, variable string, r Range) {
	if s.Checkpoints == nil {
		s.Checkpoints = make(map[int]Checkpoint)
	}
	if s.Checkpoints[phase] == nil {
		s.Checkpoints[phase] = make(Checkpoint)
	}
	s.Checkpoints[phase][variable] = r
}

// Validate checks internal consistency of the spec.
func (s *TaskSpec) Validate() error {
	if s.Task == "" {
		return fmt.Errorf("spec has no task name")
	}
	if s.PointsPerCycle < 0 {
		return fmt.Errorf("spec %s: negative points_per_cycle %d", s.Task, s.PointsPerCycle)
	}
	if len(s.Checkpoints) == 0 {
		return fmt.Errorf("spec %s has no checkpoints", s.Task)
	}

	for phase, cp := range s.Checkpoints {
		if phase < 0 || phase > 100 {
			return fmt.Errorf("spec %s: checkpoint phase %d outside 0-100", s.Task, phase)
		}
		for name, r := range cp {
			if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
				return fmt.Errorf("spec %s: %s at phase %d has NaN bound", s.Task, name, phase)
			}
			if r.Min > r.Max {
				return fmt.Errorf("spec %s: %s at phase %d has min %g > max %g",
					s.Task, name, phase, r.Min, r.Max)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the spec.
func (s *TaskSpec) Clone() *TaskSpec {
	clone := &TaskSpec{
		Task:           s.Task,
		PointsPerCycle: s.PointsPerCycle,
		Checkpoints:    make(map[int]Checkpoint, len(s.Checkpoints)),
		Notes:          s.Notes,
	}
	for phase, cp := range s.Checkpoints {
		dup := make(Checkpoint, len(cp))
		for name, r := range cp {
			dup[name] = r
		}
		clone.Checkpoints[phase] = dup
	}
	return clone
}
