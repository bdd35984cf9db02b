package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Compare runs one batch per algorithm with the same seed, game count,
// and placement. Board layouts derive only from the seed and the game
// index, so every algorithm faces the identical board sequence and the
// shot counts are directly comparable.
func (rn *Runner) Compare(ctx context.Context, base BatchRequest, algorithms []string) ([]*BatchResult, error) {
	if len(algorithms) < 2 {
		return nil, fmt.Errorf("comparison needs at least two algorithms, got %d", len(algorithms))
	}

	results := make([]*BatchResult, len(algorithms))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range algorithms {
		req := base
		req.Algorithm = id
		g.Go(func() error {
			result, err := rn.Run(gctx, req)
			if err != nil {
				return fmt.Errorf("algorithm %q: %w", id, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
