package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// AverageSpendTime reduces each row of spend (one recognizer's trials) to the mean of
// every run of repetitions consecutive trials, i.e. one average per gesture class.
func AverageSpendTime(spend mat.Matrix, repetitions int) (*mat.Dense, error) {
	rows, cols := spend.Dims()
	if repetitions <= 0 || cols%repetitions != 0 {
		return nil, fmt.Errorf("%w: %d trials, %d repetitions", ErrGrouping, cols, repetitions)
	}

	groups := cols / repetitions
	averaged := mat.NewDense(rows, groups, nil)
	for rowIdx := range rows {
		row := mat.Row(nil, rowIdx, spend)
		for g := range groups {
			averaged.Set(rowIdx, g, groupMean(row[g*repetitions:(g+1)*repetitions]))
		}
	}
	return averaged, nil
}

// groupMean shifts by the first element before summing, so a group of identical values
// averages to exactly that value.
func groupMean(xs []float64) float64 {
	shift := xs[0]
	deltas := make([]float64, len(xs))
	copy(deltas, xs)
	floats.AddConst(-shift, deltas)
	return shift + floats.Sum(deltas)/float64(len(xs))
}
