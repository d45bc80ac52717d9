package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separable() ([][]float64, []int) {
	rng := rand.New(rand.NewSource(5))
	var X [][]float64
	var y []int
	for i := 0; i < 60; i++ {
		X = append(X, []float64{rng.Float64(), rng.Float64()})
		y = append(y, -1)
	}
	for i := 0; i < 20; i++ {
		X = append(X, []float64{5 + rng.Float64(), 5 + rng.Float64()})
		y = append(y, 3)
	}
	return X, y
}

func TestDecisionTreeArbitraryLabels(t *testing.T) {
	X, y := separable()
	dt := NewDecisionTree(rand.New(rand.NewSource(1)))
	require.NoError(t, dt.Fit(X, y))

	assert.Equal(t, [2]int{-1, 3}, dt.Classes)
	assert.Equal(t, []int{-1, 3}, dt.Predict([][]float64{{0.5, 0.5}, {5.5, 5.5}}))
	assert.Equal(t, y, dt.Predict(X))
}

func TestDecisionTreePredictProbaMatchesPredict(t *testing.T) {
	X, y := separable()
	dt := NewDecisionTree(rand.New(rand.NewSource(1)))
	require.NoError(t, dt.Fit(X, y))

	probs := dt.PredictProba([][]float64{{0.5, 0.5}, {5.5, 5.5}})
	assert.Equal(t, []float64{0, 1}, probs)
	for i, p := range dt.PredictProba(X) {
		assert.Equal(t, y[i] == dt.Classes[1], p >= 0.5)
	}
}

func TestDecisionTreeSingleClass(t *testing.T) {
	dt := NewDecisionTree(nil)
	require.NoError(t, dt.Fit([][]float64{{1}, {2}}, []int{4, 4}))
	assert.Equal(t, []int{4, 4}, dt.Predict([][]float64{{0}, {10}}))
}

func TestDecisionTreeEmpty(t *testing.T) {
	assert.ErrorIs(t, NewDecisionTree(nil).Fit(nil, nil), ErrEmptyTraining)
}

func TestEnsembleModelsFitSeparableData(t *testing.T) {
	X, y := separable()
	for _, algo := range []string{"tree", "stump", "forest", "bagging"} {
		t.Run(algo, func(t *testing.T) {
			f, err := NewFactory(ModelConfig{Algorithm: algo, NTrees: 5})
			require.NoError(t, err)
			clf := f.NewClassifier(rand.New(rand.NewSource(2)))
			require.NoError(t, clf.Fit(X, y))
			assert.Equal(t, []int{-1, 3}, clf.Predict([][]float64{{0.2, 0.3}, {5.4, 5.6}}))
		})
	}
}

func TestFactoryReturnsFreshInstances(t *testing.T) {
	f, err := NewFactory(ModelConfig{Algorithm: "tree"})
	require.NoError(t, err)
	a := f.NewClassifier(rand.New(rand.NewSource(1)))
	b := f.NewClassifier(rand.New(rand.NewSource(1)))
	assert.NotSame(t, a, b)
}

func TestFactoryStumpDepth(t *testing.T) {
	f, err := NewFactory(ModelConfig{Algorithm: "stump", MaxDepth: 8})
	require.NoError(t, err)
	dt := f.NewClassifier(nil).(*DecisionTree)
	assert.Equal(t, 1, dt.MaxDepth)
}

func TestFactoryUnknownAlgorithm(t *testing.T) {
	_, err := NewFactory(ModelConfig{Algorithm: "svm"})
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
