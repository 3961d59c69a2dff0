package cli

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// processAll runs fn for every path with at most workers in flight and
// returns the results in the order of paths. fn reports per-document
// failures in its result, so one bad document never stops the others.
func processAll(ctx context.Context, paths []string, workers int, fn func(ctx context.Context, path string) fileResult) []fileResult {
	results := make([]fileResult, len(paths))
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = fileResult{Path: path}
				results[i].applyError(err, ErrCanceled)
				return nil
			}
			results[i] = fn(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
