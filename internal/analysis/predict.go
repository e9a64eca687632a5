package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

// ArgMax returns the index of the highest score, the first one on ties, or -1 for an empty row.
func ArgMax(row []float64) int {
	if len(row) == 0 {
		return -1
	}
	return floats.MaxIdx(row)
}

// Predict returns the predicted class of every trial (row) in scores.
func Predict(scores mat.Matrix) []int {
	rows, _ := scores.Dims()
	pred := make([]int, rows)
	for rowIdx := range rows {
		pred[rowIdx] = ArgMax(mat.Row(nil, rowIdx, scores))
	}
	return pred
}

// GroundTruth repeats each class index Repetitions times, matching the trial order.
func GroundTruth(layout dataset.Layout) []int {
	truth := make([]int, layout.Trials())
	for t := range truth {
		truth[t] = layout.ClassOf(t)
	}
	return truth
}
