// Package metrics computes the classification metrics reported by the
// scorer: area under the ROC curve and area under the precision-recall
// curve. Curve construction and integration are delegated to gonum.
package metrics

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// AUROC returns the area under the ROC curve for binary labels and
// predicted scores. Tied scores receive the rank-average treatment.
func AUROC(labels []bool, scores []float64) (float64, error) {
	if err := checkInput(labels, scores); err != nil {
		return 0, err
	}

	n := len(scores)
	y := make([]float64, n)
	classes := make([]bool, n)
	idx := sortedIndex(scores, false)
	for i, j := range idx {
		y[i] = scores[j]
		classes[i] = labels[j]
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// AUPRC returns the area under the precision-recall curve, with curve points
// at each distinct score threshold plus the (recall=0, precision=1) anchor.
func AUPRC(labels []bool, scores []float64) (float64, error) {
	if err := checkInput(labels, scores); err != nil {
		return 0, err
	}

	pos := 0
	for _, l := range labels {
		if l {
			pos++
		}
	}

	idx := sortedIndex(scores, true)
	recalls := []float64{0}
	precisions := []float64{1}

	tp, fp := 0, 0
	n := len(idx)
	for i := 0; i < n; {
		threshold := scores[idx[i]]
		for i < n && scores[idx[i]] == threshold {
			if labels[idx[i]] {
				tp++
			} else {
				fp++
			}
			i++
		}
		recalls = append(recalls, float64(tp)/float64(pos))
		precisions = append(precisions, float64(tp)/float64(tp+fp))
	}

	return integrate.Trapezoidal(recalls, precisions), nil
}

func checkInput(labels []bool, scores []float64) error {
	if len(scores) == 0 {
		return eris.New("metrics: empty input")
	}
	if len(labels) != len(scores) {
		return eris.Errorf("metrics: %d labels for %d scores", len(labels), len(scores))
	}

	for _, s := range scores {
		if math.IsNaN(s) {
			return eris.New("metrics: scores contain NaN")
		}
	}

	pos := 0
	for _, l := range labels {
		if l {
			pos++
		}
	}
	if pos == 0 || pos == len(labels) {
		return eris.New("metrics: labels contain a single class")
	}
	return nil
}

// sortedIndex returns row indices ordered by score.
func sortedIndex(scores []float64, descending bool) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return scores[idx[a]] > scores[idx[b]]
		}
		return scores[idx[a]] < scores[idx[b]]
	})
	return idx
}
