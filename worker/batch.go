package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchValidator validates many dataset files with bounded concurrency.
type BatchValidator struct {
	validate ValidateFunc
	workers  int
}

// NewBatchValidator creates a new batch validator.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewBatchValidator(validate ValidateFunc, workers int) *BatchValidator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchValidator{
		validate: validate,
		workers:  workers,
	}
}

// ValidateBatch validates multiple dataset files in parallel.
// Results are returned in input order. A failed file produces a JobResult
// with its Error set; other files still run to completion.
func (bv *BatchValidator) ValidateBatch(ctx context.Context, paths []string) *BatchResult {
	results := make([]*JobResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bv.workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = &JobResult{
					ID:    fmt.Sprintf("job-%d", i),
					Path:  path,
					Error: gctx.Err(),
				}
				return nil
			default:
			}

			start := time.Now()
			res, err := bv.validate(gctx, path)
			results[i] = &JobResult{
				ID:       fmt.Sprintf("job-%d", i),
				Path:     path,
				Result:   res,
				Error:    err,
				Duration: time.Since(start).Nanoseconds(),
			}
			return nil
		})
	}

	// Workers never return errors; failures live in the per-job results
	_ = g.Wait()

	br := &BatchResult{
		Results:   results,
		TotalJobs: len(paths),
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		br.CompletedJobs++
		br.TotalDuration += r.Duration
		if r.Error != nil {
			br.FailedJobs++
		}
	}
	return br
}

// ValidateBatchSimple is a convenience function for batch validation.
func ValidateBatchSimple(ctx context.Context, validate ValidateFunc, paths []string) *BatchResult {
	bv := NewBatchValidator(validate, runtime.NumCPU())
	return bv.ValidateBatch(ctx, paths)
}
