package models

import (
	"fmt"
	"math/rand"
)

// ModelConfig selects and parameterizes the base classifier.
type ModelConfig struct {
	Algorithm          string `yaml:"algorithm"`
	MaxDepth           int    `yaml:"max_depth"`
	MinSamplesSplit    int    `yaml:"min_samples_split"`
	MaxThresholdsPerFe int    `yaml:"max_thresholds_per_feature"`
	MaxFeatures        int    `yaml:"max_features"`
	NTrees             int    `yaml:"n_trees"`
}

// NewFactory returns a factory for tree, stump, forest or bagging classifiers. Zero
// fields fall back to the classifier defaults.
func NewFactory(config ModelConfig) (Factory, error) {
	switch config.Algorithm {
	case "", "tree":
		return FactoryFunc(func(rng *rand.Rand) Classifier {
			return config.tree(rng)
		}), nil

	case "stump":
		config.MaxDepth = 1
		return FactoryFunc(func(rng *rand.Rand) Classifier {
			return config.tree(rng)
		}), nil

	case "forest":
		return FactoryFunc(func(rng *rand.Rand) Classifier {
			rf := NewRandomForest(rng)
			if config.NTrees > 0 {
				rf.NEstimators = config.NTrees
			}
			if config.MaxDepth > 0 {
				rf.MaxDepth = config.MaxDepth
			}
			if config.MinSamplesSplit > 0 {
				rf.MinSamples = config.MinSamplesSplit
			}
			if config.MaxThresholdsPerFe > 0 {
				rf.MaxThresholdsPerFe = config.MaxThresholdsPerFe
			}
			rf.MaxFeatures = config.MaxFeatures
			return rf
		}), nil

	case "bagging":
		return FactoryFunc(func(rng *rand.Rand) Classifier {
			bg := NewBagging(rng)
			if config.NTrees > 0 {
				bg.NEstimators = config.NTrees
			}
			if config.MaxDepth > 0 {
				bg.MaxDepth = config.MaxDepth
			}
			if config.MinSamplesSplit > 0 {
				bg.MinSamples = config.MinSamplesSplit
			}
			if config.MaxThresholdsPerFe > 0 {
				bg.MaxThresholdsPerFe = config.MaxThresholdsPerFe
			}
			return bg
		}), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, config.Algorithm)
	}
}

func (config ModelConfig) tree(rng *rand.Rand) *DecisionTree {
	dt := NewDecisionTree(rng)
	if config.MaxDepth > 0 {
		dt.MaxDepth = config.MaxDepth
	}
	if config.MinSamplesSplit > 0 {
		dt.MinSamplesSplit = config.MinSamplesSplit
	}
	if config.MaxThresholdsPerFe > 0 {
		dt.MaxThresholdsPerFe = config.MaxThresholdsPerFe
	}
	dt.MaxFeatures = config.MaxFeatures
	return dt
}
