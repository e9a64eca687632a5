package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/gesturebench/internal/dataset"
	"github.com/tensorplex-labs/gesturebench/internal/recognizer"
)

type RunOptions struct {
	ResamplePoints int
	SquareSize     float64
}

func DefaultRunOptions() RunOptions {
	return RunOptions{
		ResamplePoints: recognizer.DefaultResamplePoints,
		SquareSize:     recognizer.DefaultSquareSize,
	}
}

// Run classifies every repetition of every class with each suite entry and
// records the scores and the elapsed milliseconds per trial. Row order matches
// the score_data.csv layout: recognizer, then class, then repetition.
func Run(ctx context.Context, set *GestureSet, suite []recognizer.Entry, layout dataset.Layout, opts RunOptions) (*dataset.Dataset, error) {
	if len(suite) != layout.Recognizers {
		return nil, fmt.Errorf("%w: suite has %d recognizers, layout expects %d",
			dataset.ErrShape, len(suite), layout.Recognizers)
	}
	if err := set.Validate(layout); err != nil {
		return nil, err
	}

	ds, err := dataset.New(layout)
	if err != nil {
		return nil, err
	}

	for r, entry := range suite {
		start := time.Now()
		pre := entry.Options(opts.ResamplePoints, opts.SquareSize)

		templates, err := preprocessAll(set.Templates(layout.Classes), pre)
		if err != nil {
			return nil, fmt.Errorf("%s templates: %w", entry.Name, err)
		}

		for c := range layout.Classes {
			for rep := range layout.Repetitions {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				trial := c*layout.Repetitions + rep
				sample := set.Gestures[c].Samples[1+rep]

				scores, elapsed, err := classify(entry.Recognizer, templates, sample, pre)
				if err != nil {
					return nil, fmt.Errorf("%s gesture %d repetition %d: %w", entry.Name, c, rep+1, err)
				}
				if err := ds.SetTrial(r, trial, scores, elapsed); err != nil {
					return nil, err
				}
			}
		}

		log.Info().
			Str("recognizer", entry.Name).
			Int("trials", layout.Trials()).
			Dur("took", time.Since(start)).
			Msg("Recognizer run complete")
	}

	return ds, nil
}

// classify times preprocessing and recognition of one candidate stroke.
func classify(rec recognizer.Recognizer, templates [][]recognizer.Point, sample []recognizer.Point, opts recognizer.PreprocessOptions) ([]float64, float64, error) {
	start := time.Now()
	candidate, err := recognizer.Preprocess(sample, opts)
	if err != nil {
		return nil, 0, err
	}
	scores, err := rec.Recognize(templates, candidate)
	if err != nil {
		return nil, 0, err
	}
	elapsed := float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)
	return scores, elapsed, nil
}

func preprocessAll(strokes [][]recognizer.Point, opts recognizer.PreprocessOptions) ([][]recognizer.Point, error) {
	out := make([][]recognizer.Point, len(strokes))
	for i, s := range strokes {
		p, err := recognizer.Preprocess(s, opts)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
