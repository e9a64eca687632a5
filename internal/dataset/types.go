package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrShape           = errors.New("dataset: unexpected shape")
	ErrParse           = errors.New("dataset: malformed value")
	ErrOrdering        = errors.New("dataset: rows out of layout order")
	ErrRecognizerIndex = errors.New("dataset: recognizer index out of range")
)

const (
	ScoreColumnPrefix   = "Score"
	SpendTimeColumn     = "SpendTime"
	RecognizerColumn    = "Recognizer"
	GestureColumn       = "Gesture"
	defaultRecognizers  = 4
	defaultGestureClass = 16
	defaultRepetitions  = 5
	valuePrecision      = 4
)

// RecognizerNames are the recognizers in the order their blocks appear in score_data.csv.
var RecognizerNames = []string{"$1", "$P", "Protractor", "$P-RS"}

// RecognizerColors are the chart colors paired with RecognizerNames.
var RecognizerColors = []string{"red", "green", "blue", "purple"}

// GestureNames are the 16 gesture classes in class-index order.
var GestureNames = []string{
	"Triangle", "X", "Rectangle", "Circle",
	"Check", "Caret", "Question", "Arrow",
	"Left Square Bracket", "Right Square Bracket", "V", "Delete",
	"Left Curly Brace", "Right Curly Brace", "Star", "Pigtail",
}

// Layout describes how rows are grouped: Recognizers blocks, each holding
// Classes groups of Repetitions consecutive trials.
type Layout struct {
	Recognizers int
	Classes     int
	Repetitions int
}

func DefaultLayout() Layout {
	return Layout{
		Recognizers: defaultRecognizers,
		Classes:     defaultGestureClass,
		Repetitions: defaultRepetitions,
	}
}

// Trials is the number of trials per recognizer.
func (l Layout) Trials() int {
	return l.Classes * l.Repetitions
}

// Rows is the number of data rows in a results file.
func (l Layout) Rows() int {
	return l.Recognizers * l.Trials()
}

// Columns is the number of numeric columns: one score per class plus elapsed time.
func (l Layout) Columns() int {
	return l.Classes + 1
}

// ClassOf returns the ground-truth class of trial t within a recognizer block.
func (l Layout) ClassOf(trial int) int {
	return trial / l.Repetitions
}

func (l Layout) Validate() error {
	if l.Recognizers <= 0 || l.Classes <= 0 || l.Repetitions <= 0 {
		return fmt.Errorf("%w: layout %+v must be positive", ErrShape, l)
	}
	return nil
}

// RecognizerName returns a display name for recognizer r, falling back to its index.
func RecognizerName(r int) string {
	if r >= 0 && r < len(RecognizerNames) {
		return RecognizerNames[r]
	}
	return fmt.Sprintf("R%d", r)
}

// GestureName returns a display name for class c, falling back to its index.
func GestureName(c int) string {
	if c >= 0 && c < len(GestureNames) {
		return GestureNames[c]
	}
	return fmt.Sprintf("Gesture %d", c)
}
