package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/propcheck-dev/propcheck/internal/domain/report"
)

// ValidateAll validates several propensity models against the same loaded
// project, at most concurrency at a time. Each call to Validate owns its own
// result and cache, so runs are independent; results come back in the order
// the names were given.
func ValidateAll(ctx context.Context, v *Validator, modelNames []string, concurrency int) []*report.Result {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*report.Result, len(modelNames))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, name := range modelNames {
		g.Go(func() error {
			results[i] = v.Validate(ctx, name)
			return nil
		})
	}

	// Validate never returns an error; the group exists for bounded
	// concurrency and context propagation.
	_ = g.Wait()

	return results
}
