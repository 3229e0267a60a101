// Package pipeline provides the validation pipeline infrastructure.
package pipeline

import (
	"sync"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/spec"
)

// Context holds all state needed during validation of a single dataset.
// It is passed through all validation checks and provides shared access to
// the loaded strides, the resolved task specs, and the accumulated result.
//
// Context instances are pooled for efficiency. Use AcquireContext() and
// Release() to manage them properly.
type Context struct {
	// Dataset is the loaded phase-indexed dataset being validated
	Dataset *dataset.Dataset

	// Specs maps task name to its resolved validation ranges.
	// Tasks without a spec are absent from the map.
	Specs map[string]*spec.TaskSpec

	// StridesByTask groups the dataset strides by task
	StridesByTask map[string][]*dataset.Stride

	// Result accumulates validation issues
	Result *lv.Result

	// Options holds validation options
	Options *lv.Options

	// mu protects concurrent access during parallel check execution
	mu sync.RWMutex

	// metadata carries check-to-check state during a run
	metadata map[string]any
}

// contextPool holds reusable Context instances.
var contextPool = sync.Pool{
	New: func() any {
		return &Context{
			Specs:         make(map[string]*spec.TaskSpec, 8),
			StridesByTask: make(map[string][]*dataset.Stride, 8),
			metadata:      make(map[string]any, 8),
		}
	},
}

// AcquireContext gets a Context from the pool.
// Call Release() when done to return it to the pool.
func AcquireContext() *Context {
	ctx := contextPool.Get().(*Context)
	ctx.Reset()
	return ctx
}

// Release returns the Context to the pool.
// After calling Release, the Context should not be used.
func (c *Context) Release() {
	if c == nil {
		return
	}

	// Don't return contexts with oversized maps
	if len(c.Specs) <= 64 && len(c.StridesByTask) <= 64 {
		contextPool.Put(c)
	}
}

// Reset clears the context for reuse.
func (c *Context) Reset() {
	c.Dataset = nil
	c.Result = nil
	c.Options = nil

	// Clear maps without reallocating
	for k := range c.Specs {
		delete(c.Specs, k)
	}
	for k := range c.StridesByTask {
		delete(c.StridesByTask, k)
	}
	for k := range c.metadata {
		delete(c.metadata, k)
	}
}

// SetMetadata stores a value in the context metadata.
// Thread-safe for use during parallel check execution.
func (c *Context) SetMetadata(key string, value any) {
	c.mu.Lock()
	c.metadata[key] = value
	c.mu.Unlock()
}

// GetMetadata retrieves a value from the context metadata.
// Thread-safe for use during parallel check execution.
func (c *Context) GetMetadata(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.metadata[key]
	c.mu.RUnlock()
	return v, ok
}

// AddIssue adds a validation issue to the result.
// Thread-safe for use during parallel check execution.
func (c *Context) AddIssue(issue lv.Issue) {
	if c.Result != nil {
		c.Result.AddIssue(issue)
	}
}

// SpecFor returns the resolved validation spec for a task.
func (c *Context) SpecFor(task string) (*spec.TaskSpec, bool) {
	c.mu.RLock()
	ts, ok := c.Specs[task]
	c.mu.RUnlock()
	return ts, ok
}

// Strides returns the strides for a task.
func (c *Context) Strides(task string) []*dataset.Stride {
	c.mu.RLock()
	strides := c.StridesByTask[task]
	c.mu.RUnlock()
	return strides
}

// Tasks returns the tasks present in the dataset.
func (c *Context) Tasks() []string {
	if c.Dataset == nil {
		return nil
	}
	return c.Dataset.Tasks()
}

// PointsPerCycle returns the expected samples per gait cycle.
func (c *Context) PointsPerCycle() int {
	if c.Options != nil && c.Options.PointsPerCycle > 0 {
		return c.Options.PointsPerCycle
	}
	return 150
}

// ShouldStop returns true if validation should stop (max errors reached).
func (c *Context) ShouldStop() bool {
	if c.Options == nil || c.Options.MaxErrors <= 0 {
		return false
	}
	if c.Result == nil {
		return false
	}
	return c.Result.ErrorCount() >= c.Options.MaxErrors
}

// NewContext creates a new Context (non-pooled).
// Prefer AcquireContext() for better performance.
func NewContext() *Context {
	return &Context{
		Specs:         make(map[string]*spec.TaskSpec, 8),
		StridesByTask: make(map[string][]*dataset.Stride, 8),
		metadata:      make(map[string]any, 8),
	}
}

// ReleaseContext returns a Context to the pool.
// This is a convenience function equivalent to ctx.Release().
func ReleaseContext(ctx *Context) {
	if ctx != nil {
		ctx.Release()
	}
}
