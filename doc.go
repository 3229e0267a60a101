// Package locovalidator provides validation of standardized, phase-indexed
// locomotion datasets.
//
// Datasets are parquet files of gait cycles resampled to a fixed number of
// points per cycle (150 by default). Validation checks each stride against
// task-specific biomechanical range specifications authored as Markdown
// documents with embedded YAML payloads.
//
// # Quick Start
//
//	import (
//	    lv "github.com/jmontp/LocoHub-sub002"
//	    "github.com/jmontp/LocoHub-sub002/engine"
//	)
//
//	validator, err := engine.New(ctx, lv.V1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := validator.Validate(ctx, "converted/gtech_2023_phase.parquet")
//	if result.HasErrors() {
//	    for _, issue := range result.Errors() {
//	        fmt.Println(issue.Diagnostics)
//	    }
//	}
//	result.Release() // Return to pool for better performance
//
// # Performance Features
//
//   - Worker Pool: Parallel batch validation using runtime.NumCPU() workers
//   - Parallel Checks: Independent validation checks run concurrently
//   - sync.Pool: Object reuse for results and pipeline contexts
//   - Generic Cache: Type-safe LRU cache for parsed range specs
//   - Batched reads: parquet files are decoded one row group at a time
//     with batched row reads, with cancellation checked between groups
//
// # Functional Options
//
//	validator, err := engine.New(ctx, lv.V1,
//	    lv.WithPointsPerCycle(150),
//	    lv.WithParallelChecks(true),
//	    lv.WithWorkerCount(runtime.NumCPU()),
//	    lv.WithMaxErrors(100),
//	)
//
// # Validation Checks
//
// Validation is performed in checks, each handling one aspect of the format:
//
//   - Schema: required meta columns, feature naming grammar, known units
//   - Phase shape: points per cycle and monotone 0-100 phase per stride
//   - Ranges: checkpoint values against task min/max specifications
//   - Completeness: NaN density and spec/dataset variable coverage
//
// # Architecture
//
//   - Small interfaces (1-2 methods each) for composability
//   - Pipeline pattern for check execution
//   - Context-based cancellation and timeout
package locovalidator
