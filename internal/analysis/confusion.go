package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ConfusionMatrix counts trials by [true class][predicted class].
type ConfusionMatrix struct {
	Classes int
	Counts  [][]int
}

func NewConfusionMatrix(truth, pred []int, classes int) (*ConfusionMatrix, error) {
	if len(truth) != len(pred) {
		return nil, fmt.Errorf("%w: %d truths for %d predictions", ErrLabels, len(truth), len(pred))
	}
	counts := make([][]int, classes)
	for i := range counts {
		counts[i] = make([]int, classes)
	}
	for i := range truth {
		if truth[i] < 0 || truth[i] >= classes || pred[i] < 0 || pred[i] >= classes {
			return nil, fmt.Errorf("%w: trial %d true=%d predicted=%d classes=%d", ErrLabels, i, truth[i], pred[i], classes)
		}
		counts[truth[i]][pred[i]]++
	}
	return &ConfusionMatrix{Classes: classes, Counts: counts}, nil
}

func (cm *ConfusionMatrix) RowSums() []int {
	sums := make([]int, cm.Classes)
	for i, row := range cm.Counts {
		for _, c := range row {
			sums[i] += c
		}
	}
	return sums
}

func (cm *ConfusionMatrix) ColSums() []int {
	sums := make([]int, cm.Classes)
	for _, row := range cm.Counts {
		for j, c := range row {
			sums[j] += c
		}
	}
	return sums
}

// Accuracy is the share of trials on the diagonal.
func (cm *ConfusionMatrix) Accuracy() float64 {
	var diag, total int
	for i, row := range cm.Counts {
		for j, c := range row {
			total += c
			if i == j {
				diag += c
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(diag) / float64(total)
}

// Max is the largest cell count.
func (cm *ConfusionMatrix) Max() int {
	m := 0
	for _, row := range cm.Counts {
		for _, c := range row {
			m = max(m, c)
		}
	}
	return m
}

func (cm *ConfusionMatrix) Dense() *mat.Dense {
	d := mat.NewDense(cm.Classes, cm.Classes, nil)
	for i, row := range cm.Counts {
		for j, c := range row {
			d.Set(i, j, float64(c))
		}
	}
	return d
}
