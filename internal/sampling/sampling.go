// Package sampling draws class-rebalanced bootstrap training sets.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"icsbagging/internal/data"
	"icsbagging/internal/smote"
)

var ErrEmptyClass = errors.New("source dataset is missing a class")

// Sampler draws one training set of the source's size. posProb is the chance
// that each row is drawn from the positive class.
type Sampler interface {
	Sample(d data.Dataset, posProb float64, rng *rand.Rand) (data.Dataset, error)
}

// Bootstrap draws every row independently from the positive or negative subset
// and repairs a sample that ended up with a single class.
type Bootstrap struct {
	PositiveLabel int
}

func (b Bootstrap) Sample(d data.Dataset, posProb float64, rng *rand.Rand) (data.Dataset, error) {
	return bootstrap(d, d.Len(), posProb, b.PositiveLabel, rng)
}

func bootstrap(d data.Dataset, n int, posProb float64, positive int, rng *rand.Rand) (data.Dataset, error) {
	pos, neg := d.Split(positive)
	if pos.Len() == 0 || neg.Len() == 0 {
		return data.Dataset{}, fmt.Errorf("%w: %d positive, %d negative rows", ErrEmptyClass, pos.Len(), neg.Len())
	}
	out := data.Dataset{X: make([][]float64, n), Y: make([]int, n)}
	var nPos int
	for i := 0; i < n; i++ {
		src := neg
		if rng.Float64() < posProb {
			src = pos
			nPos++
		}
		j := rng.Intn(src.Len())
		out.X[i] = src.X[j]
		out.Y[i] = src.Y[j]
	}
	var missing data.Dataset
	switch nPos {
	case 0:
		missing = pos
	case n:
		missing = neg
	default:
		return out, nil
	}
	i := rng.Intn(n)
	j := rng.Intn(missing.Len())
	out.X[i] = missing.X[j]
	out.Y[i] = missing.Y[j]
	return out, nil
}

// Smote tops the positive class up with SMOTE rows until both classes are the
// same size, then bootstraps from the augmented set. Synthetic rows are drawn
// afresh on every call.
type Smote struct {
	PositiveLabel int
	// K is the neighbor count handed to SMOTE.
	K int
}

func (s Smote) Sample(d data.Dataset, posProb float64, rng *rand.Rand) (data.Dataset, error) {
	aug, _, err := s.Augment(d, rng)
	if err != nil {
		return data.Dataset{}, err
	}
	return bootstrap(aug, aug.Len(), posProb, s.PositiveLabel, rng)
}

// Augment appends |negative| - |positive| synthetic positive rows to d and
// reports how many it added. Nothing is added when positives already dominate.
func (s Smote) Augment(d data.Dataset, rng *rand.Rand) (data.Dataset, int, error) {
	pos, neg := d.Split(s.PositiveLabel)
	if pos.Len() == 0 {
		return data.Dataset{}, 0, fmt.Errorf("%w: no positive rows to oversample", ErrEmptyClass)
	}
	if neg.Len() == 0 {
		return data.Dataset{}, 0, fmt.Errorf("%w: no negative rows", ErrEmptyClass)
	}
	missing := neg.Len() - pos.Len()
	if missing <= 0 {
		return d, 0, nil
	}
	n := int(math.Ceil(float64(neg.Len())/float64(pos.Len()))) * 100
	syn, err := smote.Generate(pos.X, n, s.K, rng)
	if err != nil {
		return data.Dataset{}, 0, err
	}
	extra := data.Dataset{X: make([][]float64, missing), Y: make([]int, missing)}
	for i := range extra.X {
		extra.X[i] = syn[rng.Intn(len(syn))]
		extra.Y[i] = s.PositiveLabel
	}
	return d.Concat(extra), missing, nil
}
