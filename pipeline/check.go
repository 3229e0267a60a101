package pipeline

import (
	"context"

	lv "github.com/jmontp/LocoHub-sub002"
)

// Check represents a single validation check in the pipeline.
// Each check is responsible for one aspect of dataset validation.
//
// Checks should be:
// - Stateless: All state should be in the Context
// - Thread-safe: Multiple goroutines may call Validate concurrently
// - Fast-failing: Return early if ctx is cancelled or max errors reached
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Validate performs the validation and returns any issues found.
	// The context.Context is used for cancellation and timeouts.
	// The pipeline Context holds the dataset and accumulates issues.
	Validate(ctx context.Context, pctx *Context) []lv.Issue
}

// CheckFunc is a function type that implements Check.
// Useful for simple checks that don't need a full struct.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context, pctx *Context) []lv.Issue
}

// NewCheckFunc creates a Check from a function.
func NewCheckFunc(name string, fn func(ctx context.Context, pctx *Context) []lv.Issue) Check {
	return &CheckFunc{name: name, fn: fn}
}

// Name returns the check name.
func (c *CheckFunc) Name() string {
	return c.name
}

// Validate calls the wrapped function.
func (c *CheckFunc) Validate(ctx context.Context, pctx *Context) []lv.Issue {
	return c.fn(ctx, pctx)
}

// CheckID uniquely identifies a validation check.
type CheckID string

// Standard check identifiers.
const (
	CheckIDSchema       CheckID = "schema"
	CheckIDPhaseShape   CheckID = "phase-shape"
	CheckIDRanges       CheckID = "ranges"
	CheckIDCompleteness CheckID = "completeness"
)

// CheckPriority defines the order in which checks should run.
// Lower values run first.
type CheckPriority int

const (
	// PriorityFirst for checks that must run first (e.g., schema)
	PriorityFirst CheckPriority = 100

	// PriorityEarly for checks that should run early (e.g., phase structure)
	PriorityEarly CheckPriority = 200

	// PriorityNormal for standard checks
	PriorityNormal CheckPriority = 500

	// PriorityLate for checks that depend on earlier checks
	PriorityLate CheckPriority = 800

	// PriorityLast for checks that must run last
	PriorityLast CheckPriority = 900
)

// CheckConfig holds configuration for a check in the pipeline.
type CheckConfig struct {
	// Check is the check implementation
	Check Check

	// Priority determines execution order (lower runs first)
	Priority CheckPriority

	// Parallel indicates if this check can run in parallel with others
	// of the same priority
	Parallel bool

	// Required indicates if this check must run (cannot be disabled)
	Required bool

	// Enabled indicates if this check is currently enabled
	Enabled bool
}

// CheckRegistry manages available validation checks.
type CheckRegistry struct {
	checks map[CheckID]*CheckConfig
}

// NewCheckRegistry creates a new empty registry.
func NewCheckRegistry() *CheckRegistry {
	return &CheckRegistry{
		checks: make(map[CheckID]*CheckConfig),
	}
}

// Register adds a check to the registry.
func (r *CheckRegistry) Register(id CheckID, config *CheckConfig) {
	r.checks[id] = config
}

// Get returns a check configuration by ID.
func (r *CheckRegistry) Get(id CheckID) (*CheckConfig, bool) {
	cfg, ok := r.checks[id]
	return cfg, ok
}

// GetEnabled returns all enabled checks.
func (r *CheckRegistry) GetEnabled() []*CheckConfig {
	var enabled []*CheckConfig
	for _, cfg := range r.checks {
		if cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	return enabled
}

// Enable enables a check by ID.
func (r *CheckRegistry) Enable(id CheckID) {
	if cfg, ok := r.checks[id]; ok {
		cfg.Enabled = true
	}
}

// Disable disables a check by ID (unless required).
func (r *CheckRegistry) Disable(id CheckID) {
	if cfg, ok := r.checks[id]; ok && !cfg.Required {
		cfg.Enabled = false
	}
}

// EnableAll enables all checks.
func (r *CheckRegistry) EnableAll() {
	for _, cfg := range r.checks {
		cfg.Enabled = true
	}
}

// DisableAll disables all non-required checks.
func (r *CheckRegistry) DisableAll() {
	for _, cfg := range r.checks {
		if !cfg.Required {
			cfg.Enabled = false
		}
	}
}

// All returns all registered checks.
func (r *CheckRegistry) All() map[CheckID]*CheckConfig {
	return r.checks
}

// ConditionalCheck wraps a check with a condition for execution.
type ConditionalCheck struct {
	check     Check
	condition func(*Context) bool
}

// NewConditionalCheck creates a check that only runs when a condition is met.
func NewConditionalCheck(check Check, condition func(*Context) bool) Check {
	return &ConditionalCheck{
		check:     check,
		condition: condition,
	}
}

// Name returns the wrapped check name.
func (c *ConditionalCheck) Name() string {
	return c.check.Name()
}

// Validate runs the check if the condition is met.
func (c *ConditionalCheck) Validate(ctx context.Context, pctx *Context) []lv.Issue {
	if c.condition != nil && !c.condition(pctx) {
		return nil
	}
	return c.check.Validate(ctx, pctx)
}

// CompositeCheck combines multiple checks into one.
type CompositeCheck struct {
	name   string
	checks []Check
}

// NewCompositeCheck creates a check that runs multiple sub-checks sequentially.
func NewCompositeCheck(name string, checks ...Check) Check {
	return &CompositeCheck{
		name:   name,
		checks: checks,
	}
}

// Name returns the composite check name.
func (c *CompositeCheck) Name() string {
	return c.name
}

// Validate runs all sub-checks sequentially.
func (c *CompositeCheck) Validate(ctx context.Context, pctx *Context) []lv.Issue {
	var allIssues []lv.Issue

	for _, check := range c.checks {
		select {
		case <-ctx.Done():
			return allIssues
		default:
		}

		if pctx.ShouldStop() {
			return allIssues
		}

		issues := check.Validate(ctx, pctx)
		allIssues = append(allIssues, issues...)
	}

	return allIssues
}
