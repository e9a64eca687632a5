package recognizer

import "math"

// DollarP is the $P point-cloud recognizer. Point order is ignored; each
// candidate point is greedily matched to its nearest unmatched template point.
type DollarP struct {
	Epsilon float64
}

func NewDollarP() *DollarP {
	return &DollarP{Epsilon: 0.5}
}

func (p *DollarP) Name() string { return "$P" }

func (p *DollarP) Recognize(templates [][]Point, candidate []Point) ([]float64, error) {
	if err := checkLengths(templates, candidate); err != nil {
		return nil, err
	}

	distances := make([]float64, len(templates))
	for i, tmpl := range templates {
		distances[i] = p.greedyCloudMatch(candidate, tmpl)
	}
	return invertDistances(distances), nil
}

func (p *DollarP) greedyCloudMatch(points, tmpl []Point) float64 {
	n := len(points)
	step := int(math.Floor(float64(n) * (1 - p.Epsilon)))
	if step < 1 {
		step = 1
	}

	best := math.Inf(1)
	for start := 0; start < n; start += step {
		d1 := cloudDistance(points, tmpl, start)
		d2 := cloudDistance(tmpl, points, start)
		best = math.Min(best, math.Min(d1, d2))
	}
	return best
}

// cloudDistance sums weighted nearest-neighbour distances starting at start.
// Earlier matches weigh more since later points have fewer choices left.
func cloudDistance(points, tmpl []Point, start int) float64 {
	n := len(points)
	matched := make([]bool, n)
	var sum float64

	i := start
	for {
		minDist, index := math.Inf(1), -1
		for j := range n {
			if matched[j] {
				continue
			}
			if d := distance(points[i], tmpl[j]); d < minDist {
				minDist, index = d, j
			}
		}
		if index < 0 {
			break
		}
		matched[index] = true

		weight := 1 - float64((i-start+n)%n)/float64(n)
		sum += weight * minDist

		i = (i + 1) % n
		if i == start {
			break
		}
	}
	return sum
}
