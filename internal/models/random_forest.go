package models

import (
	"math"
	"math/rand"
)

// RandomForest is bagging with a random feature subset tried at every split.
type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	// MaxFeatures defaults to sqrt of the feature count.
	MaxFeatures int
	Trees       []*DecisionTree

	rng *rand.Rand
}

func NewRandomForest(rng *rand.Rand) *RandomForest {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &RandomForest{NEstimators: 10, MaxDepth: 6, MinSamples: 2, MaxThresholdsPerFe: 32, rng: rng}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyTraining
	}
	if rf.NEstimators <= 0 {
		rf.NEstimators = 10
	}
	if rf.rng == nil {
		rf.rng = rand.New(rand.NewSource(1))
	}
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		nFeats := float64(len(X[0]))
		maxFeatures = int(math.Max(1, math.Min(nFeats, math.Sqrt(nFeats))))
	}
	trees, err := fitBootstrapTrees(X, y, rf.NEstimators, rf.rng, func(dt *DecisionTree) {
		dt.MaxDepth = rf.MaxDepth
		dt.MinSamplesSplit = rf.MinSamples
		dt.MaxThresholdsPerFe = rf.MaxThresholdsPerFe
		dt.MaxFeatures = maxFeatures
	})
	if err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) []int { return plurality(rf.Trees, X) }
