// Package ics builds classifier ensembles for imbalanced two-class problems.
// Each round fits K candidates on class-rebalanced bootstraps and keeps the
// one that best improves a blend of ensemble AUC and diversity. The positive
// draw probability of each round follows the ensemble's per-class accuracy.
package ics

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"icsbagging/internal/combination"
	"icsbagging/internal/data"
	"icsbagging/internal/diversity"
	"icsbagging/internal/ensemble"
	"icsbagging/internal/models"
	"icsbagging/internal/sampling"
)

var (
	ErrNotFitted    = errors.New("ensemble not fitted")
	ErrNoValidation = errors.New("no validation set and reuse of the training set is disabled")
)

type State int

const (
	StateEmpty State = iota
	StateSeeding
	StateGrowing
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateSeeding:
		return "seeding"
	case StateGrowing:
		return "growing"
	case StateTerminal:
		return "terminal"
	default:
		return "empty"
	}
}

// Round records one iteration of Fit. Round 0 is the seed round: it has no
// scores and its pick is uniform.
type Round struct {
	Index        int       `json:"index"`
	PositiveProb float64   `json:"positive_prob"`
	Scores       []float64 `json:"scores,omitempty"`
	Selected     int       `json:"selected"`
	BestScore    float64   `json:"best_score"`
	MeanScore    float64   `json:"mean_score"`
	StdDev       float64   `json:"score_stddev"`
}

// Builder runs the iterative construction. A Builder is not safe for
// concurrent use; Predict may be called concurrently once Fit has returned.
type Builder struct {
	cfg       Config
	evaluator *Evaluator
	generator *PoolGenerator
	logger    *zap.Logger

	validation *data.Dataset
	rng        *rand.Rand
	state      State
	ensemble   *ensemble.Ensemble
	rounds     []Round
	width      int
}

// New validates cfg and wires the builder. A nil logger discards output.
func New(cfg Config, factory models.Factory, logger *zap.Logger) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil classifier factory", ErrInvalidConfig)
	}
	comb, err := combination.New(cfg.CombinationRule)
	if err != nil {
		return nil, err
	}
	div, err := diversity.New(cfg.DiversityMetric)
	if err != nil {
		return nil, err
	}
	var sampler sampling.Sampler = sampling.Bootstrap{PositiveLabel: cfg.PositiveLabel}
	if cfg.Sampler == SamplerSmote {
		sampler = sampling.Smote{PositiveLabel: cfg.PositiveLabel, K: cfg.SmoteK}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		cfg: cfg,
		evaluator: &Evaluator{
			Combiner:      comb,
			Diversity:     div,
			Alpha:         cfg.Alpha,
			PositiveLabel: cfg.PositiveLabel,
		},
		generator: &PoolGenerator{Sampler: sampler, Factory: factory, Workers: cfg.Workers},
		logger:    logger,
	}, nil
}

// SetValidation sets the held-out set used for fitness and sampling bias.
func (b *Builder) SetValidation(X [][]float64, y []int) error {
	v := data.Dataset{X: X, Y: y}
	if err := v.CheckShape(); err != nil {
		return fmt.Errorf("validation set: %w", err)
	}
	b.validation = &v
	return nil
}

// SetRand makes Fit draw from rng instead of a fresh source seeded with
// cfg.Seed. The stream is consumed, so successive fits differ unless the
// caller reseeds it.
func (b *Builder) SetRand(rng *rand.Rand) { b.rng = rng }

// Fit grows an ensemble of cfg.NClassifiers members. On error no ensemble is
// kept and the builder returns to the empty state.
func (b *Builder) Fit(ctx context.Context, X [][]float64, y []int) error {
	ens, rounds, err := b.fit(ctx, data.Dataset{X: X, Y: y})
	if err != nil {
		b.state, b.ensemble, b.rounds, b.width = StateEmpty, nil, nil, 0
		return err
	}
	b.state, b.ensemble, b.rounds, b.width = StateTerminal, ens, rounds, len(X[0])
	return nil
}

func (b *Builder) fit(ctx context.Context, train data.Dataset) (*ensemble.Ensemble, []Round, error) {
	if err := train.Validate(b.cfg.PositiveLabel); err != nil {
		return nil, nil, fmt.Errorf("training set: %w", err)
	}
	val := train
	switch {
	case b.validation != nil:
		val = *b.validation
	case !b.cfg.ReuseTrainingAsValidation:
		return nil, nil, ErrNoValidation
	}
	if len(val.X[0]) != len(train.X[0]) {
		return nil, nil, fmt.Errorf("validation set: %w: %d columns, training has %d",
			data.ErrShapeMismatch, len(val.X[0]), len(train.X[0]))
	}

	log := b.logger.With(zap.String("run_id", uuid.NewString()))
	rng := b.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(b.cfg.Seed))
	}
	ens := &ensemble.Ensemble{}
	rounds := make([]Round, 0, b.cfg.NClassifiers)

	b.state = StateSeeding
	candidates, err := b.generator.Generate(ctx, train, b.cfg.K, 0.5, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("seed round: %w", err)
	}
	pick := rng.Intn(len(candidates))
	ens.Add(candidates[pick])
	rounds = append(rounds, Round{Index: 0, PositiveProb: 0.5, Selected: pick})
	log.Info("Seed round done", zap.Int("k", b.cfg.K), zap.Int("selected", pick))

	b.state = StateGrowing
	for i := 1; i < b.cfg.NClassifiers; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", i, err)
		}
		prob, err := b.evaluator.PositiveSamplingBias(ens, val)
		if err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", i, err)
		}
		candidates, err := b.generator.Generate(ctx, train, b.cfg.K, prob, rng)
		if err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", i, err)
		}
		scores, err := b.evaluator.ScoreAll(candidates, ens, val, b.cfg.Workers)
		if err != nil {
			return nil, nil, fmt.Errorf("round %d: %w", i, err)
		}
		sel := best(scores)
		ens.Add(candidates[sel])

		r := Round{Index: i, PositiveProb: prob, Scores: scores, Selected: sel, BestScore: scores[sel]}
		r.MeanScore, _ = stats.Mean(scores)
		r.StdDev, _ = stats.StandardDeviation(scores)
		rounds = append(rounds, r)
		log.Info("Round done",
			zap.Int("round", i),
			zap.Float64("positive_prob", prob),
			zap.Float64("best_score", r.BestScore),
			zap.Float64("mean_score", r.MeanScore),
			zap.Float64("score_stddev", r.StdDev),
			zap.Int("selected", sel),
		)
	}
	log.Info("Ensemble built", zap.Int("size", ens.Len()))
	return ens, rounds, nil
}

// Predict combines the fitted members' votes for each row of X.
func (b *Builder) Predict(X [][]float64) ([]int, error) {
	if b.ensemble == nil {
		return nil, ErrNotFitted
	}
	for i, row := range X {
		if len(row) != b.width {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", data.ErrShapeMismatch, i, len(row), b.width)
		}
	}
	return b.evaluator.Combiner.Combine(b.ensemble.Output(X)), nil
}

func (b *Builder) State() State { return b.state }

// Ensemble returns a copy of the fitted ensemble, or nil before Fit succeeds.
func (b *Builder) Ensemble() *ensemble.Ensemble {
	if b.ensemble == nil {
		return nil
	}
	return ensemble.New(b.ensemble.Classifiers()...)
}

// Rounds returns the per-round history of the last successful Fit.
func (b *Builder) Rounds() []Round { return append([]Round(nil), b.rounds...) }

func (b *Builder) Config() Config { return b.cfg }

// Width is the feature count the ensemble was fitted on.
func (b *Builder) Width() int { return b.width }
