package recognizer

import (
	"gonum.org/v1/gonum/floats"
)

// invertDistances maps raw distances to scores where the nearest template gets
// 1 and larger distances score lower. All-zero distances score 0.
func invertDistances(distances []float64) []float64 {
	result := make([]float64, len(distances))
	copy(result, distances)

	min := floats.Min(result)
	max := floats.Max(result)

	if max > 0 {
		// (max - d + min) / max
		floats.Scale(-1, result)
		floats.AddConst(max+min, result)
		floats.Scale(1.0/max, result)
	} else {
		floats.Scale(0, result)
	}

	return result
}

// minMaxScale rescales raw scores onto [0, 1]. When every score is equal all
// templates are equally good and each gets 1.
func minMaxScale(scores []float64) []float64 {
	result := make([]float64, len(scores))
	copy(result, scores)

	min := floats.Min(result)
	max := floats.Max(result)

	if max != min {
		floats.AddConst(-min, result)
		floats.Scale(1.0/(max-min), result)
	} else {
		for i := range result {
			result[i] = 1
		}
	}

	return result
}
