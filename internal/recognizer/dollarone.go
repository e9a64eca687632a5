package recognizer

import "math"

var goldenRatio = 0.5 * (math.Sqrt(5) - 1)

// DollarOne is the $1 unistroke recognizer: average point-to-point distance at
// the best rotation found by golden section search.
type DollarOne struct {
	AngleRange     float64
	AnglePrecision float64
}

func NewDollarOne() *DollarOne {
	return &DollarOne{
		AngleRange:     45 * math.Pi / 180,
		AnglePrecision: 2 * math.Pi / 180,
	}
}

func (d *DollarOne) Name() string { return "$1" }

func (d *DollarOne) Recognize(templates [][]Point, candidate []Point) ([]float64, error) {
	if err := checkLengths(templates, candidate); err != nil {
		return nil, err
	}

	distances := make([]float64, len(templates))
	for i, tmpl := range templates {
		distances[i] = d.distanceAtBestAngle(candidate, tmpl)
	}
	return invertDistances(distances), nil
}

func (d *DollarOne) distanceAtBestAngle(points, tmpl []Point) float64 {
	a, b := -d.AngleRange, d.AngleRange

	x1 := goldenRatio*a + (1-goldenRatio)*b
	f1 := pathDistance(rotateBy(points, x1), tmpl)
	x2 := (1-goldenRatio)*a + goldenRatio*b
	f2 := pathDistance(rotateBy(points, x2), tmpl)

	for math.Abs(b-a) > d.AnglePrecision {
		if f1 < f2 {
			b, x2, f2 = x2, x1, f1
			x1 = goldenRatio*a + (1-goldenRatio)*b
			f1 = pathDistance(rotateBy(points, x1), tmpl)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = (1-goldenRatio)*a + goldenRatio*b
			f2 = pathDistance(rotateBy(points, x2), tmpl)
		}
	}
	return math.Min(f1, f2)
}

func pathDistance(a, b []Point) float64 {
	var sum float64
	for i := range a {
		sum += distance(a[i], b[i])
	}
	return sum / float64(len(a))
}
