package diversity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsbagging/internal/ensemble"
)

// constant predicts the same label for every row.
type constant int

func (c constant) Fit([][]float64, []int) error { return nil }
func (c constant) Name() string                 { return "constant" }
func (c constant) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range out {
		out[i] = int(c)
	}
	return out
}

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(Oracle{{true, true}, {false, false}}))
	assert.Equal(t, 1.0, Entropy(Oracle{{true, false}, {false, true}}))
	// L=3: denominator N*(3-2); rows contribute min(c, 3-c) = 1, 0
	assert.Equal(t, 0.5, Entropy(Oracle{{true, true, false}, {true, true, true}}))
	assert.Equal(t, 0.0, Entropy(Oracle{{true}, {false}}))
}

func TestKohaviWolpert(t *testing.T) {
	// c*(L-c) = 1 and 0 over N*L^2 = 8
	assert.InDelta(t, 1.0/8, KohaviWolpert(Oracle{{true, false}, {true, true}}), 1e-12)
}

func TestPairwiseMetrics(t *testing.T) {
	o := Oracle{
		{true, true},
		{true, false},
		{false, true},
		{false, false},
	}
	assert.InDelta(t, 0.5, pairwise(disagreement)(o), 1e-12)
	assert.InDelta(t, 0.5, pairwise(agreement)(o), 1e-12)
	assert.InDelta(t, 0.25, pairwise(doubleFault)(o), 1e-12)
	assert.InDelta(t, 0.0, pairwise(qStatistic)(o), 1e-12)
	assert.InDelta(t, 0.0, pairwise(correlation)(o), 1e-12)

	same := Oracle{{true, true}, {false, false}}
	assert.InDelta(t, 1.0, pairwise(qStatistic)(same), 1e-12)
	assert.InDelta(t, 1.0, pairwise(correlation)(same), 1e-12)
}

func TestCalculateOnEnsemble(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {3}}
	y := []int{0, 0, 1, 1}
	e := ensemble.New(constant(0), constant(1))

	d, err := New("disagreement")
	require.NoError(t, err)
	assert.Equal(t, "disagreement", d.Name())
	assert.Equal(t, 1.0, d.Calculate(e, X, y))

	d, err = New("e")
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Calculate(e, X, y))

	d, err = New("df")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d.Calculate(e, X, y))
}

func TestUnknownMetric(t *testing.T) {
	_, err := New("zz")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}
