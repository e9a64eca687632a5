// Package recognizer implements the template-matching gesture recognizers
// ($1, $P and Protractor) together with their shared stroke preprocessing.
package recognizer

import (
	"errors"
	"math"
	"slices"
)

var (
	ErrDegenerateStroke = errors.New("recognizer: stroke has fewer than two distinct points")
	ErrLengthMismatch   = errors.New("recognizer: template and candidate lengths differ")
	ErrNoTemplates      = errors.New("recognizer: no templates")
)

const (
	DefaultResamplePoints = 64
	DefaultSquareSize     = 250.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PreprocessOptions struct {
	Points       int
	Size         float64
	RotateToZero bool
}

func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{Points: DefaultResamplePoints, Size: DefaultSquareSize}
}

// Preprocess normalises a raw stroke so strokes of different speed, size and
// position can be compared point by point. The input is not modified.
func Preprocess(points []Point, opts PreprocessOptions) ([]Point, error) {
	if opts.Points < 2 {
		opts.Points = DefaultResamplePoints
	}
	if opts.Size <= 0 {
		opts.Size = DefaultSquareSize
	}

	pts := dropConsecutiveDuplicates(dropNaN(points))
	if len(pts) < 2 {
		return nil, ErrDegenerateStroke
	}

	pts = resample(pts, opts.Points)
	if opts.RotateToZero {
		pts = rotateToZero(pts)
	}
	pts = scaleToSquare(pts, opts.Size)
	return translateToOrigin(pts), nil
}

func dropNaN(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func dropConsecutiveDuplicates(points []Point) []Point {
	return slices.Compact(points)
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func pathLength(points []Point) float64 {
	var length float64
	for i := 1; i < len(points); i++ {
		length += distance(points[i-1], points[i])
	}
	return length
}

// resample returns exactly n points spaced evenly along the path.
func resample(points []Point, n int) []Point {
	interval := pathLength(points) / float64(n-1)
	src := slices.Clone(points)
	out := make([]Point, 0, n)
	out = append(out, src[0])

	var acc float64
	for i := 1; i < len(src); i++ {
		d := distance(src[i-1], src[i])
		if d > 0 && acc+d >= interval {
			t := (interval - acc) / d
			q := Point{
				X: src[i-1].X + t*(src[i].X-src[i-1].X),
				Y: src[i-1].Y + t*(src[i].Y-src[i-1].Y),
			}
			out = append(out, q)
			src = slices.Insert(src, i, q)
			acc = 0
		} else {
			acc += d
		}
	}

	// floating point drift can leave the final point unplaced
	for len(out) < n {
		out = append(out, src[len(src)-1])
	}
	return out[:n]
}

func centroid(points []Point) Point {
	var c Point
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	return Point{X: c.X / n, Y: c.Y / n}
}

// indicativeAngle is the angle from the centroid to the first point.
func indicativeAngle(points []Point) float64 {
	c := centroid(points)
	return math.Atan2(points[0].Y-c.Y, points[0].X-c.X)
}

func rotateToZero(points []Point) []Point {
	return rotateBy(points, -indicativeAngle(points))
}

// rotateBy rotates points about their centroid.
func rotateBy(points []Point, radians float64) []Point {
	c := centroid(points)
	sin, cos := math.Sincos(radians)
	out := make([]Point, len(points))
	for i, p := range points {
		dx, dy := p.X-c.X, p.Y-c.Y
		out[i] = Point{
			X: dx*cos - dy*sin + c.X,
			Y: dx*sin + dy*cos + c.Y,
		}
	}
	return out
}

// scaleToSquare stretches each axis independently onto [0, size]. An axis with
// no extent collapses to 0.
func scaleToSquare(points []Point, size float64) []Point {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	sx, sy := axisScale(maxX-minX, size), axisScale(maxY-minY, size)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: (p.X - minX) * sx, Y: (p.Y - minY) * sy}
	}
	return out
}

func axisScale(extent, size float64) float64 {
	if extent == 0 {
		return 0
	}
	return size / extent
}

func translateToOrigin(points []Point) []Point {
	c := centroid(points)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: p.X - c.X, Y: p.Y - c.Y}
	}
	return out
}
