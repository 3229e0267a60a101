// Package check provides concrete validation check implementations.
//
// Each check validates one aspect of a phase-indexed locomotion dataset:
//   - schema: Validates meta columns and feature naming
//   - phase-shape: Validates per-stride phase structure
//   - ranges: Validates checkpoint values against task validation ranges
//   - completeness: Validates NaN density and spec coverage
//
// Checks implement the pipeline.Check interface and can be registered
// with a Pipeline for execution.
package check
