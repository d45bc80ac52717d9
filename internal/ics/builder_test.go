package ics

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsbagging/internal/data"
	"icsbagging/internal/models"
)

// blobs returns 90 negatives around (0,0) and 10 positives around (5,5).
func blobs(seed int64) data.Dataset {
	return data.GenerateBlobs([]data.Cluster{
		{Center: []float64{0, 0}, StdDev: 0.3, Count: 90, Label: 0},
		{Center: []float64{5, 5}, StdDev: 0.3, Count: 10, Label: 1},
	}, rand.New(rand.NewSource(seed)))
}

func treeFactory(t *testing.T) models.Factory {
	t.Helper()
	f, err := models.NewFactory(models.ModelConfig{Algorithm: "tree", MaxDepth: 4, MinSamplesSplit: 2})
	require.NoError(t, err)
	return f
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.K = 5
	cfg.NClassifiers = 6
	cfg.Alpha = 0.75
	return cfg
}

func TestFitSeparableBlobs(t *testing.T) {
	d := blobs(1)
	b, err := New(smallConfig(), treeFactory(t), nil)
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, b.State())

	require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
	assert.Equal(t, StateTerminal, b.State())
	assert.Equal(t, 6, b.Ensemble().Len())
	assert.Equal(t, 2, b.Width())

	pred, err := b.Predict([][]float64{{5, 5}, {5.1, 4.9}, {0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0}, pred)

	rounds := b.Rounds()
	require.Len(t, rounds, 6)
	assert.Equal(t, 0.5, rounds[0].PositiveProb)
	assert.Empty(t, rounds[0].Scores)
	for _, r := range rounds[1:] {
		assert.Len(t, r.Scores, 5)
		assert.GreaterOrEqual(t, r.PositiveProb, 0.0)
		assert.LessOrEqual(t, r.PositiveProb, 1.0)
		assert.Equal(t, r.Scores[r.Selected], r.BestScore)
		for _, s := range r.Scores {
			assert.LessOrEqual(t, s, r.BestScore)
		}
	}
}

func TestFitSizeMatchesConfig(t *testing.T) {
	d := blobs(2)
	for _, n := range []int{1, 2, 7} {
		cfg := smallConfig()
		cfg.NClassifiers = n
		cfg.K = 3
		b, err := New(cfg, treeFactory(t), nil)
		require.NoError(t, err)
		require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
		assert.Equal(t, n, b.Ensemble().Len())
		assert.Len(t, b.Rounds(), n)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	d := blobs(3)
	probe := blobs(4).X

	run := func(workers int) ([]int, []Round) {
		cfg := smallConfig()
		cfg.Seed = 99
		cfg.Workers = workers
		b, err := New(cfg, treeFactory(t), nil)
		require.NoError(t, err)
		require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
		pred, err := b.Predict(probe)
		require.NoError(t, err)
		return pred, b.Rounds()
	}

	p1, r1 := run(1)
	p2, r2 := run(1)
	p3, r3 := run(4)
	assert.Equal(t, p1, p2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, p1, p3)
	assert.Equal(t, r1, r3)
}

func TestFitWithSmoteSampler(t *testing.T) {
	d := blobs(5)
	cfg := smallConfig()
	cfg.Sampler = SamplerSmote
	cfg.SmoteK = 3
	b, err := New(cfg, treeFactory(t), nil)
	require.NoError(t, err)
	require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
	assert.Equal(t, 6, b.Ensemble().Len())

	pred, err := b.Predict([][]float64{{5, 5}, {0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, pred)
}

func TestFitWithSeparateValidation(t *testing.T) {
	train, val := blobs(6), blobs(7)
	cfg := smallConfig()
	cfg.ReuseTrainingAsValidation = false
	b, err := New(cfg, treeFactory(t), nil)
	require.NoError(t, err)

	err = b.Fit(context.Background(), train.X, train.Y)
	assert.ErrorIs(t, err, ErrNoValidation)
	assert.Equal(t, StateEmpty, b.State())

	require.NoError(t, b.SetValidation(val.X, val.Y))
	require.NoError(t, b.Fit(context.Background(), train.X, train.Y))
	assert.Equal(t, StateTerminal, b.State())
}

func TestFitRejectsBadInput(t *testing.T) {
	b, err := New(smallConfig(), treeFactory(t), nil)
	require.NoError(t, err)
	ctx := context.Background()

	err = b.Fit(ctx, [][]float64{{0}, {1}}, []int{0, 0})
	assert.ErrorIs(t, err, data.ErrNotBinary)

	err = b.Fit(ctx, [][]float64{{0}, {1}}, []int{0, 2})
	assert.ErrorIs(t, err, data.ErrMissingPositive)

	err = b.Fit(ctx, nil, nil)
	assert.ErrorIs(t, err, data.ErrEmpty)

	err = b.Fit(ctx, [][]float64{{0}, {1}}, []int{0})
	assert.ErrorIs(t, err, data.ErrShapeMismatch)
	assert.Equal(t, StateEmpty, b.State())
}

func TestValidationWidthMustMatch(t *testing.T) {
	d := blobs(8)
	b, err := New(smallConfig(), treeFactory(t), nil)
	require.NoError(t, err)
	require.NoError(t, b.SetValidation([][]float64{{1, 2, 3}, {4, 5, 6}}, []int{0, 1}))
	err = b.Fit(context.Background(), d.X, d.Y)
	assert.ErrorIs(t, err, data.ErrShapeMismatch)

	assert.ErrorIs(t, b.SetValidation([][]float64{{1}}, []int{0, 1}), data.ErrShapeMismatch)
}

func TestValidationWithoutPositives(t *testing.T) {
	d := blobs(9)
	neg, _ := d.Split(0)
	b, err := New(smallConfig(), treeFactory(t), nil)
	require.NoError(t, err)
	require.NoError(t, b.SetValidation(neg.X, neg.Y))

	err = b.Fit(context.Background(), d.X, d.Y)
	assert.ErrorIs(t, err, ErrEmptyValidationClass)
	assert.Equal(t, StateEmpty, b.State())
	assert.Nil(t, b.Ensemble())
}

func TestPredictBeforeFit(t *testing.T) {
	b, err := New(smallConfig(), treeFactory(t), nil)
	require.NoError(t, err)
	_, err = b.Predict([][]float64{{0, 0}})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestPredictChecksWidth(t *testing.T) {
	d := blobs(10)
	b, err := New(smallConfig(), treeFactory(t), nil)
	require.NoError(t, err)
	require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
	_, err = b.Predict([][]float64{{0, 0, 0}})
	assert.ErrorIs(t, err, data.ErrShapeMismatch)
}

var errBroken = errors.New("broken classifier")

type broken struct{}

func (broken) Fit([][]float64, []int) error { return errBroken }
func (broken) Predict(X [][]float64) []int  { return make([]int, len(X)) }
func (broken) Name() string                 { return "broken" }

func TestFailedFitDiscardsPreviousEnsemble(t *testing.T) {
	d := blobs(11)
	fail := false
	good := treeFactory(t)
	factory := models.FactoryFunc(func(rng *rand.Rand) models.Classifier {
		if fail {
			return broken{}
		}
		return good.NewClassifier(rng)
	})
	b, err := New(smallConfig(), factory, nil)
	require.NoError(t, err)
	require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
	require.Equal(t, StateTerminal, b.State())

	fail = true
	err = b.Fit(context.Background(), d.X, d.Y)
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, StateEmpty, b.State())
	assert.Nil(t, b.Ensemble())
	assert.Empty(t, b.Rounds())
	_, err = b.Predict(d.X)
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestFitHonorsCancellation(t *testing.T) {
	d := blobs(12)
	b, err := New(smallConfig(), treeFactory(t), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = b.Fit(ctx, d.X, d.Y)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateEmpty, b.State())
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(smallConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg := smallConfig()
	cfg.DiversityMetric = "nope"
	_, err = New(cfg, treeFactory(t), nil)
	assert.Error(t, err)

	cfg = smallConfig()
	cfg.CombinationRule = "nope"
	_, err = New(cfg, treeFactory(t), nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero k", func(c *Config) { c.K = 0 }},
		{"zero size", func(c *Config) { c.NClassifiers = 0 }},
		{"alpha above one", func(c *Config) { c.Alpha = 1.5 }},
		{"negative alpha", func(c *Config) { c.Alpha = -0.1 }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"unknown sampler", func(c *Config) { c.Sampler = "adasyn" }},
		{"smote without neighbors", func(c *Config) { c.Sampler = SamplerSmote; c.SmoteK = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "seeding", StateSeeding.String())
	assert.Equal(t, "growing", StateGrowing.String())
	assert.Equal(t, "terminal", StateTerminal.String())
}

func TestSetRandDrivesFit(t *testing.T) {
	d := blobs(13)
	probe := blobs(14).X

	fit := func(rng *rand.Rand) []Round {
		cfg := smallConfig()
		cfg.Seed = 5
		b, err := New(cfg, treeFactory(t), nil)
		require.NoError(t, err)
		if rng != nil {
			b.SetRand(rng)
		}
		require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
		_, err = b.Predict(probe)
		require.NoError(t, err)
		return b.Rounds()
	}

	// A source seeded like cfg.Seed reproduces the default run.
	assert.Equal(t, fit(nil), fit(rand.New(rand.NewSource(5))))
	assert.Equal(t, fit(rand.New(rand.NewSource(77))), fit(rand.New(rand.NewSource(77))))

	// The caller's stream advances across fits.
	cfg := smallConfig()
	b, err := New(cfg, treeFactory(t), nil)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(77))
	b.SetRand(rng)
	require.NoError(t, b.Fit(context.Background(), d.X, d.Y))
	next := rng.Int63()
	assert.NotEqual(t, rand.New(rand.NewSource(77)).Int63(), next)
}
