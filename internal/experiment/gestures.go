// Package experiment replays recorded gestures through the recognizer suite
// and produces the score dataset the analysis consumes.
package experiment

import (
	"errors"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/tensorplex-labs/gesturebench/internal/dataset"
	"github.com/tensorplex-labs/gesturebench/internal/recognizer"
)

var ErrGestureSet = errors.New("experiment: invalid gesture set")

// Gesture holds the recorded strokes of one class. Samples[0] is the template;
// the rest are the repetitions to classify.
type Gesture struct {
	Name    string               `json:"name"`
	Samples [][]recognizer.Point `json:"samples"`
}

type GestureSet struct {
	Gestures []Gesture `json:"gestures"`
}

func LoadGestureSet(path string) (*GestureSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gesture set: %w", err)
	}
	return ParseGestureSet(data)
}

func ParseGestureSet(data []byte) (*GestureSet, error) {
	var set GestureSet
	if err := sonic.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGestureSet, err)
	}
	return &set, nil
}

// Validate checks the set holds a template and enough repetitions for every
// class of layout.
func (s *GestureSet) Validate(layout dataset.Layout) error {
	if len(s.Gestures) < layout.Classes {
		return fmt.Errorf("%w: %d gestures, need %d", ErrGestureSet, len(s.Gestures), layout.Classes)
	}
	for c := range layout.Classes {
		g := s.Gestures[c]
		if len(g.Samples) < 1+layout.Repetitions {
			return fmt.Errorf("%w: gesture %d (%s) has %d samples, need %d",
				ErrGestureSet, c, g.Name, len(g.Samples), 1+layout.Repetitions)
		}
	}
	return nil
}

// Templates returns the template stroke of each of the first classes gestures.
func (s *GestureSet) Templates(classes int) [][]recognizer.Point {
	out := make([][]recognizer.Point, classes)
	for c := range classes {
		out[c] = s.Gestures[c].Samples[0]
	}
	return out
}
