package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RelayoutBatch runs reqs concurrently with at most limit layouts in flight
// (DefaultBatchLimit when limit <= 0). Results are in request order. The
// first failure cancels the remaining requests and is returned with its
// index.
func (r *Runner) RelayoutBatch(ctx context.Context, reqs []RelayoutRequest, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	results := make([]*Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := r.Relayout(gctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
