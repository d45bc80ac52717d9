// Package ensemble holds an ordered collection of fitted classifiers.
package ensemble

import "icsbagging/internal/models"

// Ensemble keeps classifiers in insertion order. The zero value is empty and
// ready to use.
type Ensemble struct {
	classifiers []models.Classifier
}

func New(classifiers ...models.Classifier) *Ensemble {
	return &Ensemble{classifiers: append([]models.Classifier(nil), classifiers...)}
}

func (e *Ensemble) Add(c models.Classifier) { e.classifiers = append(e.classifiers, c) }

func (e *Ensemble) Len() int { return len(e.classifiers) }

// Classifiers returns a copy of the member list.
func (e *Ensemble) Classifiers() []models.Classifier {
	return append([]models.Classifier(nil), e.classifiers...)
}

// With returns a new ensemble holding e's members followed by c. e is not
// modified, so concurrent callers may each extend the same base.
func (e *Ensemble) With(c models.Classifier) *Ensemble {
	out := make([]models.Classifier, len(e.classifiers), len(e.classifiers)+1)
	copy(out, e.classifiers)
	return &Ensemble{classifiers: append(out, c)}
}

// Output returns one row per sample with the label each member predicts, in
// member order.
func (e *Ensemble) Output(X [][]float64) [][]int {
	out := make([][]int, len(X))
	for i := range out {
		out[i] = make([]int, len(e.classifiers))
	}
	for j, c := range e.classifiers {
		for i, p := range c.Predict(X) {
			out[i][j] = p
		}
	}
	return out
}

// Oracle reports, per sample and member, whether the member predicted y.
func (e *Ensemble) Oracle(X [][]float64, y []int) [][]bool {
	votes := e.Output(X)
	out := make([][]bool, len(votes))
	for i, row := range votes {
		out[i] = make([]bool, len(row))
		for j, p := range row {
			out[i][j] = p == y[i]
		}
	}
	return out
}

// VoteShare returns, per sample, the fraction of members that predict label.
// It ranks samples for curve metrics such as ROC and PR AUC.
func (e *Ensemble) VoteShare(X [][]float64, label int) []float64 {
	out := make([]float64, len(X))
	if len(e.classifiers) == 0 {
		return out
	}
	for i, row := range e.Output(X) {
		n := 0
		for _, p := range row {
			if p == label {
				n++
			}
		}
		out[i] = float64(n) / float64(len(row))
	}
	return out
}
