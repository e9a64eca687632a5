package recognizer

import "fmt"

// Recognizer scores a preprocessed candidate against every preprocessed
// template. Scores are normalised so that the best template scores highest.
type Recognizer interface {
	Name() string
	Recognize(templates [][]Point, candidate []Point) ([]float64, error)
}

// Entry is one recognizer configuration of an experiment run.
type Entry struct {
	Name         string
	Recognizer   Recognizer
	RotateToZero bool
}

// Options returns the preprocessing options this entry expects for both
// templates and candidates.
func (e Entry) Options(points int, size float64) PreprocessOptions {
	return PreprocessOptions{Points: points, Size: size, RotateToZero: e.RotateToZero}
}

// DefaultSuite returns the four recognizer configurations in score-block order.
func DefaultSuite() []Entry {
	return []Entry{
		{Name: "$1", Recognizer: NewDollarOne(), RotateToZero: true},
		{Name: "$P", Recognizer: NewDollarP()},
		{Name: "Protractor", Recognizer: NewProtractor()},
		{Name: "$P-RS", Recognizer: NewDollarP(), RotateToZero: true},
	}
}

func checkLengths(templates [][]Point, candidate []Point) error {
	if len(templates) == 0 {
		return ErrNoTemplates
	}
	for i, tmpl := range templates {
		if len(tmpl) != len(candidate) {
			return fmt.Errorf("%w: template %d has %d points, candidate has %d",
				ErrLengthMismatch, i, len(tmpl), len(candidate))
		}
	}
	if len(candidate) == 0 {
		return ErrDegenerateStroke
	}
	return nil
}
