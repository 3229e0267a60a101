// Package engine provides the main dataset validation engine.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/check"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/pipeline"
	"github.com/jmontp/LocoHub-sub002/spec"
	"github.com/jmontp/LocoHub-sub002/worker"
)

// SpecResolver resolves validation ranges for locomotion tasks.
// *spec.Manager satisfies this interface.
type SpecResolver interface {
	Load(task string) (*spec.TaskSpec, error)
	Has(task string) bool
}

// Validator is the main phase-indexed dataset validator.
// It coordinates validation checks and manages spec resolution.
type Validator struct {
	// Configuration
	version lv.FormatVersion
	options *lv.Options

	// Services
	specs  SpecResolver
	logger *zap.Logger

	// Pipeline
	pipe *pipeline.Pipeline

	// Metrics
	metrics *lv.Metrics
}

// New creates a new Validator for the specified dataset format version.
func New(ctx context.Context, version lv.FormatVersion, opts ...lv.Option) (*Validator, error) {
	options := lv.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	v := &Validator{
		version: version,
		options: options,
		metrics: lv.NewMetrics(),
		logger:  zap.NewNop(),
	}

	v.specs = spec.NewManager(
		spec.WithCacheSize(options.SpecCacheSize),
		spec.WithCacheMetrics(v.metrics),
	)

	v.buildPipeline()

	return v, nil
}

// buildPipeline constructs the validation pipeline based on options.
func (v *Validator) buildPipeline() {
	pipelineOpts := &pipeline.PipelineOptions{
		ParallelExecution: v.options.ParallelChecks,
		MaxErrors:         v.options.MaxErrors,
		FailFast:          v.options.MaxErrors == 1,
		CheckTimeout:      v.options.CheckTimeout,
		CollectMetrics:    true,
	}

	v.pipe = pipeline.NewPipeline(pipelineOpts)
	v.pipe.SetMetrics(v.metrics)

	v.addChecks()
}

// addChecks adds validation checks to the pipeline based on configuration.
func (v *Validator) addChecks() {
	if v.options.ValidateSchema {
		v.pipe.RegisterConfig(pipeline.CheckIDSchema, check.SchemaCheckConfig(v.version))
	}
	if v.options.ValidatePhaseShape {
		v.pipe.RegisterConfig(pipeline.CheckIDPhaseShape, check.PhaseShapeCheckConfig())
	}
	if v.options.ValidateRanges {
		v.pipe.RegisterConfig(pipeline.CheckIDRanges, check.RangesCheckConfig())
	}
	if v.options.ValidateCompleteness {
		v.pipe.RegisterConfig(pipeline.CheckIDCompleteness, check.CompletenessCheckConfig())
	}
}

// SetSpecResolver replaces the spec resolver.
func (v *Validator) SetSpecResolver(r SpecResolver) {
	v.specs = r
}

// SetLogger sets the logger used for debug output.
func (v *Validator) SetLogger(logger *zap.Logger) {
	if logger != nil {
		v.logger = logger
	}
}

// Validate loads a dataset file and validates it.
func (v *Validator) Validate(ctx context.Context, path string) (*lv.Result, error) {
	start := time.Now()

	ds, err := dataset.ReadAll(ctx, path)
	if err != nil {
		result := v.newResult()
		result.Dataset = path
		result.AddError(lv.IssueTypeStructure, fmt.Sprintf("Cannot load dataset: %v", err), "")
		v.metrics.RecordValidation(time.Since(start), false)
		return result, nil
	}

	return v.ValidateDataset(ctx, ds)
}

// ValidateDataset validates a dataset that has already been loaded.
func (v *Validator) ValidateDataset(ctx context.Context, ds *dataset.Dataset) (*lv.Result, error) {
	start := time.Now()

	pctx := v.newContext()
	pctx.Dataset = ds
	pctx.StridesByTask = ds.ByTask()
	pctx.Options = v.options
	pctx.Result = v.newResult()
	pctx.Result.Dataset = ds.Path
	pctx.Result.Tasks = append(pctx.Result.Tasks, ds.Tasks()...)

	v.resolveSpecs(pctx)

	v.pipe.Execute(ctx, pctx)

	result := pctx.Result
	pctx.Result = nil // Don't release the result with the context
	pipeline.ReleaseContext(pctx)

	result.AddStrides(len(ds.Strides))

	if v.options.StrictMode {
		if n := result.WarningCount(); n > 0 && !result.HasErrors() {
			result.AddError(lv.IssueTypeInformational,
				fmt.Sprintf("Strict mode: %d warnings treated as errors", n), "")
		}
	}

	v.recordIssues(result)
	v.metrics.RecordStrides(len(ds.Strides), countValidStrides(ds, result))
	v.metrics.RecordValidation(time.Since(start), result.Valid)

	v.logger.Debug("validated dataset",
		zap.String("dataset", ds.Path),
		zap.Int("strides", len(ds.Strides)),
		zap.Int("errors", result.ErrorCount()),
		zap.Int("warnings", result.WarningCount()),
		zap.Bool("valid", result.Valid),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// resolveSpecs loads validation ranges for every task in the dataset.
// Tasks without ranges are left unresolved; the checks decide severity.
func (v *Validator) resolveSpecs(pctx *pipeline.Context) {
	if v.specs == nil || pctx.Dataset == nil {
		return
	}
	for _, task := range pctx.Dataset.Tasks() {
		ts, err := v.specs.Load(task)
		if err != nil {
			if v.specs.Has(task) {
				// The spec exists but cannot be parsed
				pctx.Result.AddWarning(lv.IssueTypeProcessing,
					fmt.Sprintf("Cannot load validation ranges: %v", err), task)
			}
			continue
		}
		pctx.Specs[task] = ts
	}
}

// recordIssues feeds issue severities into the metrics.
func (v *Validator) recordIssues(result *lv.Result) {
	for _, issue := range result.Issues {
		v.metrics.RecordIssue(issue.Severity)
	}
}

// countValidStrides counts strides with no error issue recorded against them.
func countValidStrides(ds *dataset.Dataset, result *lv.Result) int {
	bad := make(map[strideKey]bool)
	for _, issue := range result.Issues {
		if issue.IsError() && issue.Stride >= 0 {
			bad[strideKey{issue.Subject, issue.Task, issue.Stride}] = true
		}
	}

	valid := 0
	for _, s := range ds.Strides {
		if !bad[strideKey{s.Subject, s.Task, s.Step}] {
			valid++
		}
	}
	return valid
}

type strideKey struct {
	subject string
	task    string
	step    int
}

// ValidateBatch validates multiple dataset files in parallel.
// Results are returned in input order.
func (v *Validator) ValidateBatch(ctx context.Context, paths []string) *worker.BatchResult {
	bv := worker.NewBatchValidator(v.Validate, v.options.WorkerCount)
	return bv.ValidateBatch(ctx, paths)
}

func (v *Validator) newResult() *lv.Result {
	if v.options.EnablePooling {
		return lv.AcquireResult()
	}
	return lv.NewResult()
}

func (v *Validator) newContext() *pipeline.Context {
	if v.options.EnablePooling {
		return pipeline.AcquireContext()
	}
	return pipeline.NewContext()
}

// Metrics returns the validator's metrics.
func (v *Validator) Metrics() *lv.Metrics {
	return v.metrics
}

// Version returns the dataset format version this validator is configured for.
func (v *Validator) Version() lv.FormatVersion {
	return v.version
}

// Options returns the validator's options.
func (v *Validator) Options() *lv.Options {
	return v.options
}

// Close releases resources held by the validator.
func (v *Validator) Close() error {
	// Nothing to clean up currently
	return nil
}
