// Package dataset loads gesture-recognition experiment results and reshapes them into
// a score tensor indexed by [recognizer, trial, class] and a timing matrix indexed by
// [recognizer, trial].
package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dataset holds one experiment run. It is read-only once loaded: accessors hand out
// copies so callers cannot mutate the shared tensor.
type Dataset struct {
	layout    Layout
	scores    []*mat.Dense // per recognizer: Trials x Classes
	spendTime *mat.Dense   // Recognizers x Trials
}

// New allocates a zeroed dataset for layout.
func New(layout Layout) (*Dataset, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	scores := make([]*mat.Dense, layout.Recognizers)
	for r := range scores {
		scores[r] = mat.NewDense(layout.Trials(), layout.Classes, nil)
	}
	return &Dataset{
		layout:    layout,
		scores:    scores,
		spendTime: mat.NewDense(layout.Recognizers, layout.Trials(), nil),
	}, nil
}

// FromTable reshapes a Rows x Columns table (scores followed by elapsed time) into a dataset.
func FromTable(table *mat.Dense, layout Layout) (*Dataset, error) {
	ds, err := New(layout)
	if err != nil {
		return nil, err
	}
	rows, cols := table.Dims()
	if rows != layout.Rows() || cols != layout.Columns() {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrShape, rows, cols, layout.Rows(), layout.Columns())
	}

	trials := layout.Trials()
	for r := range layout.Recognizers {
		block := table.Slice(r*trials, (r+1)*trials, 0, layout.Classes)
		ds.scores[r].Copy(block)
		ds.spendTime.SetRow(r, mat.Col(nil, layout.Classes, table.Slice(r*trials, (r+1)*trials, 0, cols)))
	}
	return ds, nil
}

// SetTrial records the scores and elapsed milliseconds of one trial.
func (d *Dataset) SetTrial(recognizer, trial int, scores []float64, elapsed float64) error {
	if err := d.checkRecognizer(recognizer); err != nil {
		return err
	}
	if trial < 0 || trial >= d.layout.Trials() {
		return fmt.Errorf("%w: trial %d outside [0,%d)", ErrShape, trial, d.layout.Trials())
	}
	if len(scores) != d.layout.Classes {
		return fmt.Errorf("%w: %d scores for %d classes", ErrShape, len(scores), d.layout.Classes)
	}
	d.scores[recognizer].SetRow(trial, scores)
	d.spendTime.Set(recognizer, trial, elapsed)
	return nil
}

func (d *Dataset) Layout() Layout {
	return d.layout
}

// Scores returns a copy of recognizer r's Trials x Classes score block.
func (d *Dataset) Scores(r int) (*mat.Dense, error) {
	if err := d.checkRecognizer(r); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(d.scores[r]), nil
}

// SpendTime returns a copy of the Recognizers x Trials timing matrix.
func (d *Dataset) SpendTime() *mat.Dense {
	return mat.DenseCopyOf(d.spendTime)
}

// Table flattens the dataset back into the Rows x Columns layout of the results file.
func (d *Dataset) Table() *mat.Dense {
	trials := d.layout.Trials()
	table := mat.NewDense(d.layout.Rows(), d.layout.Columns(), nil)
	for r := range d.layout.Recognizers {
		block := table.Slice(r*trials, (r+1)*trials, 0, d.layout.Classes).(*mat.Dense)
		block.Copy(d.scores[r])
		for t := range trials {
			table.Set(r*trials+t, d.layout.Classes, d.spendTime.At(r, t))
		}
	}
	return table
}

func (d *Dataset) checkRecognizer(r int) error {
	if r < 0 || r >= d.layout.Recognizers {
		return fmt.Errorf("%w: %d outside [0,%d)", ErrRecognizerIndex, r, d.layout.Recognizers)
	}
	return nil
}
