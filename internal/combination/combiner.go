// Package combination reduces per-member votes to one label per sample.
package combination

import (
	"errors"
	"fmt"
)

var ErrUnknownRule = errors.New("unknown combination rule")

const MajorityVote = "majority_vote"

// Rule maps one sample's member votes to a single label.
type Rule func(votes []int) int

var rules = map[string]Rule{
	MajorityVote: majorityVote,
}

type Combiner struct {
	name string
	rule Rule
}

func New(name string) (*Combiner, error) {
	r, ok := rules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	return &Combiner{name: name, rule: r}, nil
}

func (c *Combiner) Name() string { return c.name }

// Combine applies the rule to every row of an N x L vote matrix.
func (c *Combiner) Combine(out [][]int) []int {
	res := make([]int, len(out))
	for i, votes := range out {
		res[i] = c.rule(votes)
	}
	return res
}

// majorityVote returns the most frequent label; ties go to the smallest one.
func majorityVote(votes []int) int {
	counts := make(map[int]int, 2)
	for _, v := range votes {
		counts[v]++
	}
	best, bestN := 0, -1
	for label, n := range counts {
		if n > bestN || (n == bestN && label < best) {
			best, bestN = label, n
		}
	}
	return best
}
