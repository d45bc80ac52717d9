package ics

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"icsbagging/internal/data"
	"icsbagging/internal/models"
	"icsbagging/internal/sampling"
)

// PoolGenerator fits K independent candidates per round, each on its own
// resample and with its own classifier instance.
type PoolGenerator struct {
	Sampler sampling.Sampler
	Factory models.Factory
	Workers int
}

// Generate draws one seed per candidate from rng before fanning out, so the
// pool depends only on rng and not on scheduling.
func (g *PoolGenerator) Generate(ctx context.Context, d data.Dataset, k int, posProb float64, rng *rand.Rand) ([]models.Classifier, error) {
	seeds := make([]int64, k)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	out := make([]models.Classifier, k)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers(g.Workers))
	for i, seed := range seeds {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			crng := rand.New(rand.NewSource(seed))
			sample, err := g.Sampler.Sample(d, posProb, crng)
			if err != nil {
				return fmt.Errorf("candidate %d: sample: %w", i, err)
			}
			clf := g.Factory.NewClassifier(crng)
			if err := clf.Fit(sample.X, sample.Y); err != nil {
				return fmt.Errorf("candidate %d: fit %s: %w", i, clf.Name(), err)
			}
			out[i] = clf
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
