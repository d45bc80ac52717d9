// Package metrics scores binary predictions against true labels.
package metrics

import (
	"errors"
	"math"
	"sort"
)

var ErrSingleClass = errors.New("AUC needs both classes in the true labels")

func Accuracy(y, p []int) float64 {
	if len(y) == 0 {
		return 0
	}
	c := 0
	for i := range y {
		if y[i] == p[i] {
			c++
		}
	}
	return float64(c) / float64(len(y))
}

// ClassAccuracy is the accuracy restricted to rows whose true label is label.
// ok is false when no such row exists.
func ClassAccuracy(y, p []int, label int) (acc float64, ok bool) {
	n, c := 0, 0
	for i := range y {
		if y[i] != label {
			continue
		}
		n++
		if p[i] == label {
			c++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(c) / float64(n), true
}

func Confusion(y, p []int, positive int) (tp, fp, tn, fn int) {
	for i := range y {
		predPos := p[i] == positive
		truePos := y[i] == positive
		switch {
		case predPos && truePos:
			tp++
		case predPos:
			fp++
		case truePos:
			fn++
		default:
			tn++
		}
	}
	return
}

func PRF1(y, p []int, positive int) (precision, recall, f1 float64) {
	tp, fp, _, fn := Confusion(y, p, positive)
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return
}

// AUC is the ROC AUC of hard label predictions, which reduces to the mean of
// the true positive and true negative rates.
func AUC(y, p []int, positive int) (float64, error) {
	truth := make([]bool, len(y))
	scores := make([]float64, len(p))
	for i := range y {
		truth[i] = y[i] == positive
		if p[i] == positive {
			scores[i] = 1
		}
	}
	return ROCAUC(truth, scores)
}

// ROCAUC integrates the ROC curve with the trapezoid rule, grouping tied scores.
func ROCAUC(y []bool, ps []float64) (float64, error) {
	type pair struct {
		s float64
		y bool
	}
	n := len(y)
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{ps[i], y[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })
	var pos, neg int
	for _, p := range pairs {
		if p.y {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, ErrSingleClass
	}
	tp, fp := 0, 0
	prevS := math.Inf(1)
	var auc, prevTPR, prevFPR float64
	for i := 0; i < n; i++ {
		if pairs[i].s != prevS {
			tpr := float64(tp) / float64(pos)
			fpr := float64(fp) / float64(neg)
			auc += (fpr - prevFPR) * (tpr + prevTPR) / 2.0
			prevTPR, prevFPR = tpr, fpr
			prevS = pairs[i].s
		}
		if pairs[i].y {
			tp++
		} else {
			fp++
		}
	}
	auc += (1 - prevFPR) * (1 + prevTPR) / 2.0
	return auc, nil
}

// PRAUC is the area under the precision-recall curve, step-wise in recall.
func PRAUC(y []bool, ps []float64) float64 {
	type pair struct {
		s float64
		y bool
	}
	n := len(y)
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pair{ps[i], y[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })
	var tp, fp, fn int
	for _, p := range pairs {
		if p.y {
			fn++
		}
	}
	var prevRec, auc float64
	for i := 0; i < n; i++ {
		if pairs[i].y {
			tp++
			fn--
		} else {
			fp++
		}
		var prec, rec float64
		if tp+fp > 0 {
			prec = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			rec = float64(tp) / float64(tp+fn)
		}
		auc += (rec - prevRec) * prec
		prevRec = rec
	}
	return auc
}
