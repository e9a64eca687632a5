package analysis

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

var (
	ErrPerplexity = errors.New("analysis: perplexity must be positive and below the number of points")
	ErrGrouping   = errors.New("analysis: trials do not divide into repetition groups")
	ErrLabels     = errors.New("analysis: label outside the class range")
)

type TSNEParams struct {
	Perplexity        float64
	Seed              uint64
	Iterations        int
	LearningRate      float64 // <= 0 selects max(n/exaggeration/4, 50)
	EarlyExaggeration float64
	ExaggerationIters int
}

// Embedding is a 2-D projection: one row per input point.
type Embedding struct {
	Points       *mat.Dense
	KLDivergence float64
}

// Result bundles every statistic behind the four charts.
type Result struct {
	Layout           dataset.Layout
	RecognizerIndex  int
	AverageSpendTime *mat.Dense // Recognizers x Classes
	CorrectCounts    []int      // per recognizer, 0..Trials
	CorrectByClass   [][]int    // [recognizer][class], rows sum to CorrectCounts
	Confusion        *ConfusionMatrix
	Embedding        *Embedding
	Labels           []int // ground-truth class per trial
}
