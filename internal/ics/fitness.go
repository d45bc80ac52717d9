package ics

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"icsbagging/internal/combination"
	"icsbagging/internal/data"
	"icsbagging/internal/diversity"
	"icsbagging/internal/ensemble"
	"icsbagging/internal/metrics"
	"icsbagging/internal/models"
)

var (
	ErrEmptyEnsemble        = errors.New("ensemble has no members")
	ErrEmptyValidationClass = errors.New("validation set is missing a class")
	ErrDegenerateAccuracy   = errors.New("ensemble is wrong on every validation row")
)

// Evaluator scores candidates by what they would do to the ensemble.
type Evaluator struct {
	Combiner      *combination.Combiner
	Diversity     *diversity.Diversity
	Alpha         float64
	PositiveLabel int
}

// Score returns alpha*AUC + (1-alpha)*diversity of e extended by c on val.
// e is left untouched.
func (ev *Evaluator) Score(c models.Classifier, e *ensemble.Ensemble, val data.Dataset) (float64, error) {
	ext := e.With(c)
	pred := ev.Combiner.Combine(ext.Output(val.X))
	auc, err := metrics.AUC(val.Y, pred, ev.PositiveLabel)
	if err != nil {
		return 0, fmt.Errorf("fitness auc: %w", err)
	}
	div := ev.Diversity.Calculate(ext, val.X, val.Y)
	return ev.Alpha*auc + (1-ev.Alpha)*div, nil
}

// ScoreAll scores every candidate against the same base ensemble, up to
// maxWorkers at a time. scores[i] belongs to candidates[i].
func (ev *Evaluator) ScoreAll(candidates []models.Classifier, e *ensemble.Ensemble, val data.Dataset, maxWorkers int) ([]float64, error) {
	scores := make([]float64, len(candidates))
	p := pool.New().WithErrors().WithMaxGoroutines(workers(maxWorkers))
	for i, c := range candidates {
		p.Go(func() error {
			s, err := ev.Score(c, e, val)
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			scores[i] = s
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// PositiveSamplingBias is the chance of drawing a positive row in the next
// round: 1 - posAcc/(posAcc+negAcc) of the current ensemble on val. It grows
// as the ensemble does worse on positives than on negatives.
func (ev *Evaluator) PositiveSamplingBias(e *ensemble.Ensemble, val data.Dataset) (float64, error) {
	if e.Len() == 0 {
		return 0, ErrEmptyEnsemble
	}
	pred := ev.Combiner.Combine(e.Output(val.X))
	var nPos, okPos, nNeg, okNeg int
	for i, y := range val.Y {
		hit := pred[i] == y
		if y == ev.PositiveLabel {
			nPos++
			if hit {
				okPos++
			}
		} else {
			nNeg++
			if hit {
				okNeg++
			}
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, fmt.Errorf("%w: %d positive, %d negative rows", ErrEmptyValidationClass, nPos, nNeg)
	}
	posAcc := float64(okPos) / float64(nPos)
	negAcc := float64(okNeg) / float64(nNeg)
	if posAcc+negAcc == 0 {
		return 0, ErrDegenerateAccuracy
	}
	return 1 - posAcc/(posAcc+negAcc), nil
}

// best returns the index of the first strictly maximal score.
func best(scores []float64) int {
	idx := 0
	for i, s := range scores {
		if s > scores[idx] {
			idx = i
		}
	}
	return idx
}
