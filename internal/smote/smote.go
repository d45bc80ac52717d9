// Package smote implements the Synthetic Minority Oversampling Technique.
package smote

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var ErrInvalidParams = errors.New("invalid smote parameters")

// Generate returns about N/100 * len(T) synthetic rows. Each one lies on the
// segment between a minority row and one of its k nearest minority neighbors.
// N below 100 first keeps a random N percent of T and then makes one row per
// kept sample. A single-row T has no neighbors, so its synthetic rows are copies.
func Generate(T [][]float64, N, k int, rng *rand.Rand) ([][]float64, error) {
	if len(T) == 0 {
		return nil, fmt.Errorf("%w: empty minority set", ErrInvalidParams)
	}
	if N <= 0 || k <= 0 {
		return nil, fmt.Errorf("%w: N=%d k=%d", ErrInvalidParams, N, k)
	}
	if N < 100 {
		keep := N * len(T) / 100
		if keep == 0 {
			keep = 1
		}
		perm := rng.Perm(len(T))[:keep]
		sub := make([][]float64, keep)
		for i, j := range perm {
			sub[i] = T[j]
		}
		T = sub
		N = 100
	}
	perSample := N / 100
	if k > len(T)-1 {
		k = len(T) - 1
	}

	out := make([][]float64, 0, perSample*len(T))
	for i, x := range T {
		nn := neighbors(T, i, k)
		for n := 0; n < perSample; n++ {
			syn := make([]float64, len(x))
			copy(syn, x)
			if len(nn) > 0 {
				nb := T[nn[rng.Intn(len(nn))]]
				gap := rng.Float64()
				diff := make([]float64, len(x))
				floats.SubTo(diff, nb, x)
				floats.AddScaled(syn, gap, diff)
			}
			out = append(out, syn)
		}
	}
	return out, nil
}

// neighbors returns the indices of the k rows closest to T[i], excluding i.
func neighbors(T [][]float64, i, k int) []int {
	if k <= 0 {
		return nil
	}
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, 0, len(T)-1)
	for j, row := range T {
		if j == i {
			continue
		}
		cands = append(cands, cand{j, floats.Distance(T[i], row, 2)})
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
	out := make([]int, k)
	for j := 0; j < k; j++ {
		out[j] = cands[j].idx
	}
	return out
}
