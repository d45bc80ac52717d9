package models

import (
	"errors"
	"math/rand"
)

var (
	ErrEmptyTraining    = errors.New("no training rows")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Classifier is a trainable two-class model over integer labels.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	Name() string
}

// Factory hands out untrained classifiers. Every call returns an independent
// instance; rng is the only randomness the instance may use.
type Factory interface {
	NewClassifier(rng *rand.Rand) Classifier
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(rng *rand.Rand) Classifier

func (f FactoryFunc) NewClassifier(rng *rand.Rand) Classifier { return f(rng) }
