package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	lv "github.com/jmontp/LocoHub-sub002"
)

// Pipeline orchestrates the execution of validation checks.
// It supports both sequential and parallel execution of checks,
// with configurable timeouts and early termination on max errors.
type Pipeline struct {
	// registry holds all registered checks
	registry *CheckRegistry

	// groups holds checks organized by execution group
	groups []*CheckGroup

	// metrics tracks execution metrics
	metrics *lv.Metrics

	// options holds pipeline configuration
	options *PipelineOptions

	// mu protects concurrent access
	mu sync.RWMutex
}

// CheckGroup is a set of checks sharing a priority that may run together.
type CheckGroup struct {
	Priority CheckPriority
	Checks   []*CheckConfig
	Parallel bool
}

// PipelineOptions configures pipeline behavior.
type PipelineOptions struct {
	// ParallelExecution enables running independent checks in parallel
	ParallelExecution bool

	// CheckTimeout is the maximum time for a single check
	CheckTimeout time.Duration

	// MaxErrors stops validation after this many errors (0 = unlimited)
	MaxErrors int

	// CollectMetrics enables performance metric collection
	CollectMetrics bool

	// FailFast stops at the first error
	FailFast bool
}

// DefaultPipelineOptions returns sensible defaults.
func DefaultPipelineOptions() *PipelineOptions {
	return &PipelineOptions{
		ParallelExecution: true,
		CheckTimeout:      0, // no timeout
		MaxErrors:         0, // unlimited
		CollectMetrics:    true,
		FailFast:          false,
	}
}

// NewPipeline creates a new validation pipeline.
func NewPipeline(opts *PipelineOptions) *Pipeline {
	if opts == nil {
		opts = DefaultPipelineOptions()
	}

	return &Pipeline{
		registry: NewCheckRegistry(),
		groups:   make([]*CheckGroup, 0, 8),
		metrics:  lv.NewMetrics(),
		options:  opts,
	}
}

// Register adds a check to the pipeline.
func (p *Pipeline) Register(id CheckID, check Check, opts ...CheckOption) {
	config := &CheckConfig{
		Check:    check,
		Priority: PriorityNormal,
		Parallel: true,
		Required: false,
		Enabled:  true,
	}

	for _, opt := range opts {
		opt(config)
	}

	p.mu.Lock()
	p.registry.Register(id, config)
	p.mu.Unlock()

	p.rebuildGroups()
}

// RegisterConfig adds a pre-configured check to the pipeline.
// This is useful when checks are already fully configured.
func (p *Pipeline) RegisterConfig(id CheckID, config *CheckConfig) {
	if config == nil {
		return
	}

	p.mu.Lock()
	p.registry.Register(id, config)
	p.mu.Unlock()

	p.rebuildGroups()
}

// CheckOption configures a check registration.
type CheckOption func(*CheckConfig)

// WithPriority sets the check priority.
func WithPriority(priority CheckPriority) CheckOption {
	return func(c *CheckConfig) {
		c.Priority = priority
	}
}

// WithParallel sets whether the check can run in parallel.
func WithParallel(parallel bool) CheckOption {
	return func(c *CheckConfig) {
		c.Parallel = parallel
	}
}

// WithRequired marks the check as required.
func WithRequired(required bool) CheckOption {
	return func(c *CheckConfig) {
		c.Required = required
	}
}

// Enable enables a check by ID.
func (p *Pipeline) Enable(id CheckID) {
	p.mu.Lock()
	p.registry.Enable(id)
	p.mu.Unlock()
	p.rebuildGroups()
}

// Disable disables a check by ID.
func (p *Pipeline) Disable(id CheckID) {
	p.mu.Lock()
	p.registry.Disable(id)
	p.mu.Unlock()
	p.rebuildGroups()
}

// rebuildGroups organizes checks into execution groups.
func (p *Pipeline) rebuildGroups() {
	p.mu.Lock()
	defer p.mu.Unlock()

	enabled := p.registry.GetEnabled()
	if len(enabled) == 0 {
		p.groups = nil
		return
	}

	// Group checks by priority
	groups := make(map[CheckPriority][]*CheckConfig)
	for _, cfg := range enabled {
		groups[cfg.Priority] = append(groups[cfg.Priority], cfg)
	}

	var priorities []CheckPriority
	for priority := range groups {
		priorities = append(priorities, priority)
	}
	sort.Slice(priorities, func(i, j int) bool {
		return priorities[i] < priorities[j]
	})

	p.groups = make([]*CheckGroup, 0, len(priorities))
	for _, priority := range priorities {
		checks := groups[priority]

		// A group runs in parallel only if every member allows it
		canParallel := true
		for _, cfg := range checks {
			if !cfg.Parallel {
				canParallel = false
				break
			}
		}

		p.groups = append(p.groups, &CheckGroup{
			Priority: priority,
			Checks:   checks,
			Parallel: canParallel && p.options.ParallelExecution,
		})
	}
}

// Execute runs the validation pipeline.
func (p *Pipeline) Execute(ctx context.Context, pctx *Context) *lv.Result {
	start := time.Now()

	if pctx.Result == nil {
		pctx.Result = lv.AcquireResult()
	}

	p.mu.RLock()
	groups := p.groups
	p.mu.RUnlock()

	for _, group := range groups {
		select {
		case <-ctx.Done():
			pctx.Result.AddIssue(lv.Warning(lv.IssueTypeTimeout).
				Diagnostics("Validation cancelled: " + ctx.Err().Error()).
				Build())
			return pctx.Result
		default:
		}

		if p.options.MaxErrors > 0 && pctx.Result.ErrorCount() >= p.options.MaxErrors {
			break
		}

		if p.options.FailFast && pctx.Result.ErrorCount() > 0 {
			break
		}

		p.executeGroup(ctx, pctx, group)
	}

	if p.options.CollectMetrics && p.metrics != nil {
		p.metrics.RecordValidation(time.Since(start), pctx.Result.Valid)
	}

	return pctx.Result
}

// executeGroup executes a single check group.
func (p *Pipeline) executeGroup(ctx context.Context, pctx *Context, group *CheckGroup) {
	if group.Parallel && len(group.Checks) > 1 {
		p.executeParallel(ctx, pctx, group)
	} else {
		p.executeSequential(ctx, pctx, group)
	}
}

// executeSequential runs checks one at a time.
func (p *Pipeline) executeSequential(ctx context.Context, pctx *Context, group *CheckGroup) {
	for _, cfg := range group.Checks {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if p.options.MaxErrors > 0 && pctx.Result.ErrorCount() >= p.options.MaxErrors {
			return
		}

		p.executeCheck(ctx, pctx, cfg)

		if p.options.FailFast && pctx.Result.ErrorCount() > 0 {
			return
		}
	}
}

// executeParallel runs checks concurrently.
func (p *Pipeline) executeParallel(ctx context.Context, pctx *Context, group *CheckGroup) {
	var wg sync.WaitGroup
	resultsChan := make(chan []lv.Issue, len(group.Checks))

	checkCtx := ctx
	var cancel context.CancelFunc
	if p.options.CheckTimeout > 0 {
		checkCtx, cancel = context.WithTimeout(ctx, p.options.CheckTimeout)
		defer cancel()
	}

	for _, cfg := range group.Checks {
		wg.Add(1)
		go func(cfg *CheckConfig) {
			defer wg.Done()

			start := time.Now()
			issues := cfg.Check.Validate(checkCtx, pctx)
			duration := time.Since(start)

			if p.options.CollectMetrics && p.metrics != nil {
				p.metrics.RecordCheck(cfg.Check.Name(), duration, len(issues))
			}

			resultsChan <- issues
		}(cfg)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for issues := range resultsChan {
		pctx.Result.AddIssues(issues)
	}
}

// executeCheck runs a single check with timing.
func (p *Pipeline) executeCheck(ctx context.Context, pctx *Context, cfg *CheckConfig) {
	checkCtx := ctx
	var cancel context.CancelFunc
	if p.options.CheckTimeout > 0 {
		checkCtx, cancel = context.WithTimeout(ctx, p.options.CheckTimeout)
		defer cancel()
	}

	start := time.Now()
	issues := cfg.Check.Validate(checkCtx, pctx)
	duration := time.Since(start)

	if p.options.CollectMetrics && p.metrics != nil {
		p.metrics.RecordCheck(cfg.Check.Name(), duration, len(issues))
	}

	pctx.Result.AddIssues(issues)
}

// Metrics returns the pipeline metrics.
func (p *Pipeline) Metrics() *lv.Metrics {
	return p.metrics
}

// SetMetrics sets the metrics collector.
func (p *Pipeline) SetMetrics(m *lv.Metrics) {
	p.metrics = m
}

// Registry returns the check registry.
func (p *Pipeline) Registry() *CheckRegistry {
	return p.registry
}

// CheckCount returns the number of enabled checks.
func (p *Pipeline) CheckCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.registry.GetEnabled())
}

// GroupCount returns the number of check groups.
func (p *Pipeline) GroupCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.groups)
}
