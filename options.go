package locovalidator

import (
	"runtime"
	"time"
)

// Option configures the Validator.
type Option func(*Options)

// Options holds all configuration for the Validator.
type Options struct {
	// Validation flags
	ValidateSchema       bool
	ValidatePhaseShape   bool
	ValidateRanges       bool
	ValidateCompleteness bool
	RequireSpec          bool
	StrictMode           bool

	// Dataset geometry
	PointsPerCycle int
	PhaseTolerance float64

	// Completeness thresholds
	MaxNaNShare float64

	// Performance
	MaxErrors      int
	ParallelChecks bool
	WorkerCount    int
	CheckTimeout   time.Duration
	EnablePooling  bool

	// Cache sizes
	SpecCacheSize int
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		// All core checks enabled by default
		ValidateSchema:       true,
		ValidatePhaseShape:   true,
		ValidateRanges:       true,
		ValidateCompleteness: true,

		// Disabled by default
		RequireSpec: false,
		StrictMode:  false,

		// Dataset geometry: 150 points per gait cycle, phase grid tolerance
		// of half a sample
		PointsPerCycle: 150,
		PhaseTolerance: 100.0 / 150.0 / 2.0,

		// Up to 5% non-finite samples per variable before flagging
		MaxNaNShare: 0.05,

		// Performance defaults
		MaxErrors:      0, // unlimited
		ParallelChecks: true,
		WorkerCount:    runtime.NumCPU(),
		CheckTimeout:   0, // no timeout
		EnablePooling:  true,

		SpecCacheSize: 64,
	}
}

// --- Validation Options ---

// WithSchema enables schema validation (column presence and naming).
func WithSchema(enable bool) Option {
	return func(o *Options) {
		o.ValidateSchema = enable
	}
}

// WithPhaseShape enables per-stride phase structure validation.
func WithPhaseShape(enable bool) Option {
	return func(o *Options) {
		o.ValidatePhaseShape = enable
	}
}

// WithRanges enables checkpoint range validation.
func WithRanges(enable bool) Option {
	return func(o *Options) {
		o.ValidateRanges = enable
	}
}

// WithCompleteness enables NaN density and spec coverage validation.
func WithCompleteness(enable bool) Option {
	return func(o *Options) {
		o.ValidateCompleteness = enable
	}
}

// WithRequireSpec requires every task in the dataset to have validation ranges.
func WithRequireSpec(require bool) Option {
	return func(o *Options) {
		o.RequireSpec = require
	}
}

// WithStrictMode treats warnings as errors.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.StrictMode = enable
	}
}

// --- Dataset Geometry Options ---

// WithPointsPerCycle sets the expected number of samples per gait cycle.
// The default is 150.
func WithPointsPerCycle(points int) Option {
	return func(o *Options) {
		if points > 0 {
			o.PointsPerCycle = points
			o.PhaseTolerance = 100.0 / float64(points) / 2.0
		}
	}
}

// WithPhaseTolerance sets the tolerance (in percent gait cycle) when
// matching checkpoint phases to the sampled phase grid.
func WithPhaseTolerance(tolerance float64) Option {
	return func(o *Options) {
		if tolerance > 0 {
			o.PhaseTolerance = tolerance
		}
	}
}

// WithMaxNaNShare sets the tolerated share of non-finite samples per variable.
func WithMaxNaNShare(share float64) Option {
	return func(o *Options) {
		if share >= 0 && share <= 1 {
			o.MaxNaNShare = share
		}
	}
}

// --- Performance Options ---

// WithMaxErrors sets the maximum number of errors before stopping validation.
// Use 0 for unlimited.
func WithMaxErrors(max int) Option {
	return func(o *Options) {
		o.MaxErrors = max
	}
}

// WithParallelChecks enables parallel execution of independent checks.
func WithParallelChecks(enable bool) Option {
	return func(o *Options) {
		o.ParallelChecks = enable
	}
}

// WithWorkerCount sets the number of workers for batch validation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithCheckTimeout sets a timeout for each validation check.
// Use 0 for no timeout.
func WithCheckTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.CheckTimeout = timeout
	}
}

// WithPooling enables or disables object pooling.
// Pooling reduces GC pressure but requires calling Release() on results.
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}

// WithSpecCacheSize sets the parsed-spec cache size.
func WithSpecCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.SpecCacheSize = size
		}
	}
}

// --- Presets ---

// FastOptions returns options optimized for speed.
// Skips completeness analysis and runs checks in parallel.
func FastOptions() []Option {
	return []Option{
		WithCompleteness(false),
		WithParallelChecks(true),
		WithPooling(true),
	}
}

// StrictOptions returns options for strict validation.
// Enables all checks, requires specs, and treats warnings as errors.
func StrictOptions() []Option {
	return []Option{
		WithSchema(true),
		WithPhaseShape(true),
		WithRanges(true),
		WithCompleteness(true),
		WithRequireSpec(true),
		WithStrictMode(true),
	}
}

// DebugOptions returns options useful for debugging.
// Disables pooling and parallelism for deterministic issue ordering.
func DebugOptions() []Option {
	return []Option{
		WithParallelChecks(false),
		WithPooling(false),
		WithMaxErrors(100),
	}
}
