// Package benchmark derives draft validation ranges from trusted
// datasets.
//
// Given a dataset known to contain good strides, the Creator computes
// per-task, per-variable percentile ranges at each checkpoint phase and
// widens them by a margin. The result is a spec the Manager can save
// and a curator can tune by hand.
package benchmark

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
	"github.com/jmontp/LocoHub-sub002/units"
)

const (
	// DefaultLowPercentile and DefaultHighPercentile bound the raw range.
	DefaultLowPercentile  = 0.01
	DefaultHighPercentile = 0.99

	// DefaultMargin widens the percentile span on each side.
	DefaultMargin = 0.10

	// DefaultMinSamples is the minimum finite sample count per variable
	// and checkpoint before a range is emitted.
	DefaultMinSamples = 10
)

// Creator derives draft range specs from datasets.
type Creator struct {
	low, high      float64
	margin         float64
	checkpoints    []int
	pointsPerCycle int
	minSamples     int
}

// Option configures a Creator.
type Option func(*Creator)

// WithPercentiles sets the low and high percentiles (0-1) of the raw range.
func WithPercentiles(low, high float64) Option {
	return func(c *Creator) {
		c.low = low
		c.high = high
	}
}

// WithMargin sets the fraction of the percentile span added on each side.
func WithMargin(margin float64) Option {
	return func(c *Creator) {
		c.margin = margin
	}
}

// WithCheckpoints sets the checkpoint phases ranges are derived at.
func WithCheckpoints(phases []int) Option {
	return func(c *Creator) {
		c.checkpoints = phases
	}
}

// WithPointsPerCycle sets the expected samples per gait cycle.
func WithPointsPerCycle(points int) Option {
	return func(c *Creator) {
		c.pointsPerCycle = points
	}
}

// WithMinSamples sets the minimum finite samples required per range.
func WithMinSamples(n int) Option {
	return func(c *Creator) {
		c.minSamples = n
	}
}

// NewCreator creates a Creator with default settings.
func NewCreator(opts ...Option) *Creator {
	c := &Creator{
		low:            DefaultLowPercentile,
		high:           DefaultHighPercentile,
		margin:         DefaultMargin,
		checkpoints:    spec.DefaultCheckpoints,
		pointsPerCycle: 150,
		minSamples:     DefaultMinSamples,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Derive builds one draft spec per task in the dataset, sorted by task
// name. Tasks where no variable accumulates enough samples are omitted.
func (c *Creator) Derive(ctx context.Context, ds *dataset.Dataset) ([]*spec.TaskSpec, error) {
	if ds == nil || len(ds.Strides) == 0 {
		return nil, fmt.Errorf("dataset has no strides to derive ranges from")
	}

	byTask := ds.ByTask()
	out := make([]*spec.TaskSpec, 0, len(byTask))
	for _, task := range ds.Tasks() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ts := c.deriveTask(task, byTask[task])
		if len(ts.Checkpoints) == 0 {
			continue
		}
		out = append(out, ts)
	}
	return out, nil
}

// DeriveTask builds a draft spec for a single task.
func (c *Creator) DeriveTask(ctx context.Context, ds *dataset.Dataset, task string) (*spec.TaskSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("dataset has no strides to derive ranges from")
	}

	strides := ds.ByTask()[task]
	if len(strides) == 0 {
		return nil, fmt.Errorf("dataset has no strides for task %q", task)
	}

	ts := c.deriveTask(task, strides)
	if len(ts.Checkpoints) == 0 {
		return nil, fmt.Errorf("task %q has too few finite samples for any range", task)
	}
	return ts, nil
}

func (c *Creator) deriveTask(task string, strides []*dataset.Stride) *spec.TaskSpec {
	ts := &spec.TaskSpec{
		Task:           task,
		PointsPerCycle: c.pointsPerCycle,
		Checkpoints:    make(map[int]spec.Checkpoint),
	}

	tolerance := 100.0 / float64(c.pointsPerCycle) / 2
	for _, phase := range c.checkpoints {
		samples := make(map[string][]float64)
		for _, s := range strides {
			idx := s.SampleAt(float64(phase), tolerance)
			if idx < 0 {
				continue
			}
			for name := range s.Features {
				if !units.IsStandard(name) {
					continue
				}
				v := s.Value(name, idx)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					continue
				}
				samples[name] = append(samples[name], v)
			}
		}

		cp := make(spec.Checkpoint)
		for name, vals := range samples {
			if len(vals) < c.minSamples {
				continue
			}
			cp[name] = c.rangeFrom(vals)
		}
		if len(cp) > 0 {
			ts.Checkpoints[phase] = cp
		}
	}
	return ts
}

// rangeFrom computes the widened percentile range of a sample set.
func (c *Creator) rangeFrom(vals []float64) spec.Range {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	lo := percentile(sorted, c.low)
	hi := percentile(sorted, c.high)

	span := hi - lo
	if span == 0 {
		// Constant signal: widen around the value itself so the
		// range still has room for measurement noise.
		span = math.Max(math.Abs(lo), 1e-6)
	}

	return spec.Range{
		Min: lo - c.margin*span,
		Max: hi + c.margin*span,
	}
}

// percentile returns the linearly interpolated p-quantile of a sorted
// slice, with p in [0, 1].
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
