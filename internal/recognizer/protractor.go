package recognizer

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// minAngle keeps identical strokes from scoring +Inf.
const minAngle = 1e-6

// Protractor scores templates by the inverse of the angle between the
// candidate and template vectors.
type Protractor struct{}

func NewProtractor() *Protractor { return &Protractor{} }

func (Protractor) Name() string { return "Protractor" }

func (Protractor) Recognize(templates [][]Point, candidate []Point) ([]float64, error) {
	if err := checkLengths(templates, candidate); err != nil {
		return nil, err
	}

	v := vectorize(candidate)
	scores := make([]float64, len(templates))
	for i, tmpl := range templates {
		scores[i] = 1 / cosineAngle(v, vectorize(tmpl))
	}
	return minMaxScale(scores), nil
}

func vectorize(points []Point) []float64 {
	v := make([]float64, 0, 2*len(points))
	for _, p := range points {
		v = append(v, p.X, p.Y)
	}
	return v
}

func cosineAngle(a, b []float64) float64 {
	denom := floats.Norm(a, 2) * floats.Norm(b, 2)
	if denom == 0 {
		return math.Pi / 2
	}
	cos := math.Max(-1, math.Min(1, floats.Dot(a, b)/denom))
	return math.Max(math.Acos(cos), minAngle)
}
