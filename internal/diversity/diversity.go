// Package diversity measures how differently ensemble members err on a
// labeled sample.
package diversity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"icsbagging/internal/ensemble"
)

var ErrUnknownMetric = errors.New("unknown diversity metric")

// Oracle is an N x L matrix: Oracle[i][j] is true when member j labels
// sample i correctly.
type Oracle [][]bool

// MetricFunc computes a diversity value from an oracle matrix.
type MetricFunc func(o Oracle) float64

var metrics = map[string]MetricFunc{
	"e":            Entropy,
	"kw":           KohaviWolpert,
	"q":            pairwise(qStatistic),
	"p":            pairwise(correlation),
	"disagreement": pairwise(disagreement),
	"agreement":    pairwise(agreement),
	"df":           pairwise(doubleFault),
}

// Diversity evaluates a named metric against an ensemble.
type Diversity struct {
	name string
	fn   MetricFunc
}

func New(name string) (*Diversity, error) {
	fn, ok := metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return &Diversity{name: name, fn: fn}, nil
}

func (d *Diversity) Name() string { return d.name }

func (d *Diversity) Calculate(e *ensemble.Ensemble, X [][]float64, y []int) float64 {
	return d.fn(e.Oracle(X, y))
}

// Entropy is the non-pairwise entropy measure E. It is 0 when all members
// agree on every sample and 1 for maximal disagreement. Undefined for fewer
// than two members, where it returns 0.
func Entropy(o Oracle) float64 {
	if len(o) == 0 {
		return 0
	}
	L := len(o[0])
	denom := L - int(math.Ceil(float64(L)/2))
	if denom == 0 {
		return 0
	}
	total := 0
	for _, row := range o {
		c := correct(row)
		total += min(c, L-c)
	}
	return float64(total) / float64(len(o)*denom)
}

// KohaviWolpert is the Kohavi-Wolpert variance of the members' correctness.
func KohaviWolpert(o Oracle) float64 {
	if len(o) == 0 || len(o[0]) == 0 {
		return 0
	}
	L := len(o[0])
	total := 0
	for _, row := range o {
		c := correct(row)
		total += c * (L - c)
	}
	return float64(total) / float64(len(o)*L*L)
}

func correct(row []bool) int {
	c := 0
	for _, ok := range row {
		if ok {
			c++
		}
	}
	return c
}

// counts is the 2x2 contingency table of two members' correctness.
type counts struct {
	n11, n10, n01, n00 float64
}

func (c counts) total() float64 { return c.n11 + c.n10 + c.n01 + c.n00 }

type pairFunc func(c counts) float64

// pairwise averages a pair statistic over all unordered member pairs.
func pairwise(f pairFunc) MetricFunc {
	return func(o Oracle) float64 {
		if len(o) == 0 || len(o[0]) < 2 {
			return 0
		}
		L := len(o[0])
		var vals []float64
		for a := 0; a < L; a++ {
			for b := a + 1; b < L; b++ {
				var c counts
				for _, row := range o {
					switch {
					case row[a] && row[b]:
						c.n11++
					case row[a]:
						c.n10++
					case row[b]:
						c.n01++
					default:
						c.n00++
					}
				}
				vals = append(vals, f(c))
			}
		}
		return stat.Mean(vals, nil)
	}
}

// qStatistic is Yule's Q; 0 when the table makes it undefined.
func qStatistic(c counts) float64 {
	den := c.n11*c.n00 + c.n01*c.n10
	if den == 0 {
		return 0
	}
	return (c.n11*c.n00 - c.n01*c.n10) / den
}

// correlation is the phi coefficient; 0 when a margin is empty.
func correlation(c counts) float64 {
	den := math.Sqrt((c.n11 + c.n10) * (c.n01 + c.n00) * (c.n11 + c.n01) * (c.n10 + c.n00))
	if den == 0 {
		return 0
	}
	return (c.n11*c.n00 - c.n01*c.n10) / den
}

func disagreement(c counts) float64 { return (c.n01 + c.n10) / c.total() }

func agreement(c counts) float64 { return 1 - disagreement(c) }

func doubleFault(c counts) float64 { return c.n00 / c.total() }
