package ics

import (
	"errors"
	"fmt"

	"icsbagging/internal/combination"
)

var ErrInvalidConfig = errors.New("invalid ensemble config")

const (
	SamplerBootstrap = "bootstrap"
	SamplerSmote     = "smote"
)

// Config holds the builder options.
type Config struct {
	// K is the number of candidates fitted per round.
	K int `yaml:"k"`
	// Alpha weighs AUC against diversity in the fitness score.
	Alpha           float64 `yaml:"alpha"`
	NClassifiers    int     `yaml:"n_classifiers"`
	CombinationRule string  `yaml:"combination_rule"`
	DiversityMetric string  `yaml:"diversity_metric"`
	PositiveLabel   int     `yaml:"positive_label"`
	// ReuseTrainingAsValidation scores candidates on the training set when no
	// validation set was given. Scores are then optimistic.
	ReuseTrainingAsValidation bool   `yaml:"reuse_training_as_validation"`
	Sampler                   string `yaml:"sampler"`
	SmoteK                    int    `yaml:"smote_k"`
	Seed                      int64  `yaml:"seed"`
	// Workers bounds per-round parallelism; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		K:                         10,
		Alpha:                     0.75,
		NClassifiers:              100,
		CombinationRule:           combination.MajorityVote,
		DiversityMetric:           "e",
		PositiveLabel:             1,
		ReuseTrainingAsValidation: true,
		Sampler:                   SamplerBootstrap,
		SmoteK:                    5,
		Seed:                      1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.K < 1:
		return fmt.Errorf("%w: k must be at least 1, got %d", ErrInvalidConfig, c.K)
	case c.NClassifiers < 1:
		return fmt.Errorf("%w: n_classifiers must be at least 1, got %d", ErrInvalidConfig, c.NClassifiers)
	case c.Alpha < 0 || c.Alpha > 1:
		return fmt.Errorf("%w: alpha must be in [0,1], got %g", ErrInvalidConfig, c.Alpha)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	switch c.Sampler {
	case SamplerBootstrap:
	case SamplerSmote:
		if c.SmoteK < 1 {
			return fmt.Errorf("%w: smote_k must be at least 1, got %d", ErrInvalidConfig, c.SmoteK)
		}
	default:
		return fmt.Errorf("%w: unknown sampler %q", ErrInvalidConfig, c.Sampler)
	}
	return nil
}
