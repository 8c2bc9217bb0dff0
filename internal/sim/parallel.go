package sim

import (
	"context"

	"github.com/san-kum/demonsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Builder creates a fresh simulator for one seed. Scenarios own mutable
// body state, so ensemble members never share one.
type Builder func(seed int64) (*Simulator, error)

type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit caps how many runs execute at once. Zero or less means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

// Run executes every seed and returns the results in seed order. The first
// failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(i)

			s, err := e.build(cfgCopy.Seed)
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, cfgCopy)
			if err != nil {
				return err
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
