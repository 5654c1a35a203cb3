// Package scorer scores many alternatives against one tree concurrently.
package scorer

import (
	"context"
	"runtime"

	"dema/internal/score"
	"dema/internal/tree"

	"github.com/sourcegraph/conc/pool"
)

// BatchScorer fans alternatives out to a bounded worker pool. Results keep the
// order of the input alternatives regardless of completion order.
type BatchScorer struct {
	scorer  *score.Scorer
	workers int
}

// NewBatchScorer creates a BatchScorer. If workers is <= 0 it defaults to NumCPU.
func NewBatchScorer(s *score.Scorer, workers int) *BatchScorer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchScorer{scorer: s, workers: workers}
}

// ScoreAll scores every alternative against template. It stops handing out work
// once ctx is done and returns ctx.Err() in that case.
func (b *BatchScorer) ScoreAll(ctx context.Context, template tree.Node, alts []score.Alternative) ([]score.Result, error) {
	if template == nil {
		return nil, score.ErrNoTree
	}
	if len(alts) == 0 {
		return nil, nil
	}

	results := make([]score.Result, len(alts))
	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(b.workers)
	for i := range alts {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := b.scorer.Score(template, alts[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
