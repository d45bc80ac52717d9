package models

import "math/rand"

// Bagging is plain bootstrap aggregation of full-feature trees. It serves as
// the uniform-resampling baseline for the ICS ensembles.
type Bagging struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	Trees              []*DecisionTree

	rng *rand.Rand
}

func NewBagging(rng *rand.Rand) *Bagging {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Bagging{NEstimators: 30, MaxDepth: 6, MinSamples: 2, MaxThresholdsPerFe: 32, rng: rng}
}

func (bg *Bagging) Name() string { return "Bagging" }

func (bg *Bagging) Fit(X [][]float64, y []int) error {
	if bg.NEstimators <= 0 {
		bg.NEstimators = 30
	}
	if bg.rng == nil {
		bg.rng = rand.New(rand.NewSource(1))
	}
	trees, err := fitBootstrapTrees(X, y, bg.NEstimators, bg.rng, func(dt *DecisionTree) {
		dt.MaxDepth = bg.MaxDepth
		dt.MinSamplesSplit = bg.MinSamples
		dt.MaxThresholdsPerFe = bg.MaxThresholdsPerFe
	})
	if err != nil {
		return err
	}
	bg.Trees = trees
	return nil
}

func (bg *Bagging) Predict(X [][]float64) []int { return plurality(bg.Trees, X) }

// fitBootstrapTrees fits n trees, each on a uniform bootstrap of (X, y) and
// with its own rng derived from rng.
func fitBootstrapTrees(X [][]float64, y []int, n int, rng *rand.Rand, setup func(*DecisionTree)) ([]*DecisionTree, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, ErrEmptyTraining
	}
	rows := len(X)
	trees := make([]*DecisionTree, 0, n)
	for k := 0; k < n; k++ {
		Xb := make([][]float64, rows)
		yb := make([]int, rows)
		for i := 0; i < rows; i++ {
			j := rng.Intn(rows)
			Xb[i] = X[j]
			yb[i] = y[j]
		}
		dt := NewDecisionTree(rand.New(rand.NewSource(rng.Int63())))
		setup(dt)
		if err := dt.Fit(Xb, yb); err != nil {
			return nil, err
		}
		trees = append(trees, dt)
	}
	return trees, nil
}

// plurality takes the most frequent tree label per row; ties go to the
// smaller label.
func plurality(trees []*DecisionTree, X [][]float64) []int {
	out := make([]int, len(X))
	if len(trees) == 0 {
		return out
	}
	votes := make([][]int, len(trees))
	for t, dt := range trees {
		votes[t] = dt.Predict(X)
	}
	for i := range X {
		counts := map[int]int{}
		for t := range votes {
			counts[votes[t][i]]++
		}
		best, bestN := 0, -1
		for label, c := range counts {
			if c > bestN || (c == bestN && label < best) {
				best, bestN = label, c
			}
		}
		out[i] = best
	}
	return out
}
