package analysis

import (
	"bytes"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/gesturebench/internal/config"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

// syntheticDataset builds a dataset with known accuracies:
//   - recognizer 0 is always right (80)
//   - recognizer 1 misses the first repetition of every class (64)
//   - recognizer 2 always answers class 0 (5)
//   - recognizer 3 ties every class, so argmax answers class 0 (5)
func syntheticDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	layout := dataset.DefaultLayout()
	ds, err := dataset.New(layout)
	require.NoError(t, err)

	for r := range layout.Recognizers {
		for trial := range layout.Trials() {
			class := layout.ClassOf(trial)
			scores := make([]float64, layout.Classes)
			switch r {
			case 0:
				scores[class] = 1
			case 1:
				if trial%layout.Repetitions == 0 {
					scores[(class+1)%layout.Classes] = 1
				} else {
					scores[class] = 1
				}
			case 2:
				scores[0] = 1
			case 3:
				for c := range scores {
					scores[c] = 0.5
				}
			}
			require.NoError(t, ds.SetTrial(r, trial, scores, float64(r*100+class)))
		}
	}
	return ds
}

func TestArgMaxTieBreak(t *testing.T) {
	assert.Equal(t, 1, ArgMax([]float64{0.2, 0.9, 0.1, 0.9}))
	assert.Equal(t, 0, ArgMax([]float64{0.3, 0.3, 0.3}))
	assert.Equal(t, 2, ArgMax([]float64{-3, -2, -1}))
	assert.Equal(t, -1, ArgMax(nil))
}

func TestGroundTruth(t *testing.T) {
	truth := GroundTruth(dataset.DefaultLayout())
	require.Len(t, truth, 80)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 1}, truth[:6])
	assert.Equal(t, 15, truth[79])
}

func TestCorrectCounts(t *testing.T) {
	ds := syntheticDataset(t)

	counts, err := CorrectCounts(ds)
	require.NoError(t, err)
	assert.Equal(t, []int{80, 64, 5, 5}, counts)

	for r, total := range counts {
		assert.GreaterOrEqual(t, total, 0)
		assert.LessOrEqual(t, total, 80)

		scores, err := ds.Scores(r)
		require.NoError(t, err)
		byClass := CorrectByClass(scores, ds.Layout())
		sum := 0
		for _, c := range byClass {
			sum += c
		}
		assert.Equal(t, total, sum, "per-class contributions of recognizer %d", r)
	}
}

func TestConfusionMatrixRowSums(t *testing.T) {
	ds := syntheticDataset(t)
	truth := GroundTruth(ds.Layout())

	for r := range 4 {
		scores, err := ds.Scores(r)
		require.NoError(t, err)
		cm, err := NewConfusionMatrix(truth, Predict(scores), 16)
		require.NoError(t, err)

		for class, sum := range cm.RowSums() {
			assert.Equal(t, 5, sum, "recognizer %d class %d", r, class)
		}
	}
}

func TestConfusionMatrixCells(t *testing.T) {
	ds := syntheticDataset(t)
	scores, err := ds.Scores(1)
	require.NoError(t, err)

	cm, err := NewConfusionMatrix(GroundTruth(ds.Layout()), Predict(scores), 16)
	require.NoError(t, err)

	assert.Equal(t, 4, cm.Counts[0][0])
	assert.Equal(t, 1, cm.Counts[0][1])
	assert.Equal(t, 1, cm.Counts[15][0])
	assert.InDelta(t, 0.8, cm.Accuracy(), 1e-12)
	assert.Equal(t, 4, cm.Max())
	assert.Equal(t, 80.0, mat.Sum(cm.Dense()))

	colSums := cm.ColSums()
	assert.Equal(t, 5, colSums[3])
}

func TestConfusionMatrixRejectsBadLabels(t *testing.T) {
	_, err := NewConfusionMatrix([]int{0, 1}, []int{0}, 2)
	assert.ErrorIs(t, err, ErrLabels)

	_, err = NewConfusionMatrix([]int{0, 2}, []int{0, 1}, 2)
	assert.ErrorIs(t, err, ErrLabels)

	_, err = NewConfusionMatrix([]int{0}, []int{-1}, 2)
	assert.ErrorIs(t, err, ErrLabels)
}

func TestAverageSpendTimeConstantGroups(t *testing.T) {
	layout := dataset.DefaultLayout()
	spend := mat.NewDense(layout.Recognizers, layout.Trials(), nil)
	k := func(r, class int) float64 { return 0.1*float64(class) + float64(r)/3 + 0.7 }
	for r := range layout.Recognizers {
		for trial := range layout.Trials() {
			spend.Set(r, trial, k(r, layout.ClassOf(trial)))
		}
	}

	avg, err := AverageSpendTime(spend, layout.Repetitions)
	require.NoError(t, err)

	rows, cols := avg.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 16, cols)
	for r := range rows {
		for c := range cols {
			assert.Equal(t, k(r, c), avg.At(r, c), "recognizer %d class %d", r, c)
		}
	}
}

func TestAverageSpendTimeMean(t *testing.T) {
	spend := mat.NewDense(1, 10, []float64{1, 2, 3, 4, 5, 10, 10, 10, 10, 20})
	avg, err := AverageSpendTime(spend, 5)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, avg.At(0, 0), 1e-12)
	assert.InDelta(t, 12.0, avg.At(0, 1), 1e-12)
}

func TestAverageSpendTimeBadGrouping(t *testing.T) {
	spend := mat.NewDense(4, 80, nil)
	_, err := AverageSpendTime(spend, 3)
	assert.ErrorIs(t, err, ErrGrouping)
	_, err = AverageSpendTime(spend, 0)
	assert.ErrorIs(t, err, ErrGrouping)
}

func TestTSNEPerplexityValidation(t *testing.T) {
	points := mat.NewDense(10, 3, nil)
	for _, perplexity := range []float64{0, -1, 10, 30} {
		params := DefaultTSNEParams()
		params.Perplexity = perplexity
		_, err := TSNE(points, params)
		assert.ErrorIs(t, err, ErrPerplexity, "perplexity %v", perplexity)
	}
}

func twoClusters(perCluster int) (*mat.Dense, []int) {
	rng := rand.New(rand.NewPCG(7, 7))
	points := mat.NewDense(2*perCluster, 4, nil)
	labels := make([]int, 2*perCluster)
	for i := range 2 * perCluster {
		cluster := i / perCluster
		labels[i] = cluster
		for k := range 4 {
			points.Set(i, k, float64(cluster)*10+rng.Float64())
		}
	}
	return points, labels
}

func TestTSNESeparatesClusters(t *testing.T) {
	points, labels := twoClusters(10)
	params := DefaultTSNEParams()
	params.Perplexity = 5
	params.Iterations = 500

	emb, err := TSNE(points, params)
	require.NoError(t, err)

	rows, cols := emb.Points.Dims()
	require.Equal(t, 20, rows)
	require.Equal(t, 2, cols)
	assert.False(t, math.IsNaN(emb.KLDivergence))

	for i := range rows {
		nearest, best := -1, math.Inf(1)
		for j := range rows {
			if i == j {
				continue
			}
			if d := floats.Distance(emb.Points.RawRowView(i), emb.Points.RawRowView(j), 2); d < best {
				nearest, best = j, d
			}
		}
		assert.Equal(t, labels[i], labels[nearest], "nearest neighbour of point %d", i)
	}
}

func TestTSNEIsDeterministicForSeed(t *testing.T) {
	points, _ := twoClusters(8)
	params := DefaultTSNEParams()
	params.Perplexity = 4
	params.Iterations = 200

	a, err := TSNE(points, params)
	require.NoError(t, err)
	b, err := TSNE(points, params)
	require.NoError(t, err)
	assert.True(t, mat.Equal(a.Points, b.Points))

	params.Seed++
	c, err := TSNE(points, params)
	require.NoError(t, err)
	assert.False(t, mat.Equal(a.Points, c.Points))
}

func TestPipelineProcess(t *testing.T) {
	ds := syntheticDataset(t)

	res, err := NewPipeline(WithRecognizer(1), WithIterations(100)).Process(ds)
	require.NoError(t, err)

	assert.Equal(t, 1, res.RecognizerIndex)
	assert.Equal(t, []int{80, 64, 5, 5}, res.CorrectCounts)
	assert.Equal(t, 16, res.Confusion.Classes)
	assert.InDelta(t, 0.8, res.Confusion.Accuracy(), 1e-12)
	assert.Len(t, res.Labels, 80)

	rows, cols := res.AverageSpendTime.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 16, cols)
	assert.Equal(t, 207.0, res.AverageSpendTime.At(2, 7))

	rows, cols = res.Embedding.Points.Dims()
	assert.Equal(t, 80, rows)
	assert.Equal(t, 2, cols)
}

func TestPipelineRecognizerOutOfRange(t *testing.T) {
	ds := syntheticDataset(t)

	_, err := NewPipeline(WithRecognizer(4)).Process(ds)
	assert.ErrorIs(t, err, dataset.ErrRecognizerIndex)
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline()
	assert.Equal(t, DefaultRecognizerIndex, p.RecognizerIndex)
	assert.Equal(t, DefaultTSNEParams(), p.TSNEParams)

	p = NewPipeline(WithPerplexity(10), WithSeed(1), WithLearningRate(0), WithIterations(5))
	assert.Equal(t, 10.0, p.TSNEParams.Perplexity)
	assert.Equal(t, uint64(1), p.TSNEParams.Seed)
	assert.Equal(t, 0.0, p.TSNEParams.LearningRate)
	assert.Equal(t, 5, p.TSNEParams.Iterations)

	cfg := &config.AnalysisEnvConfig{RecognizerIndex: 1, TSNEPerplexity: 12, TSNESeed: 7, TSNEIterations: 300, TSNELearningRate: 50}
	p = NewPipeline(ConfigOptions(cfg)...)
	assert.Equal(t, 1, p.RecognizerIndex)
	assert.Equal(t, 12.0, p.TSNEParams.Perplexity)
	assert.Equal(t, uint64(7), p.TSNEParams.Seed)
	assert.Equal(t, 300, p.TSNEParams.Iterations)
	assert.Equal(t, 50.0, p.TSNEParams.LearningRate)
	assert.Equal(t, DefaultTSNEParams().EarlyExaggeration, p.TSNEParams.EarlyExaggeration)
}

func TestPlotAccuracyTerminal(t *testing.T) {
	var buf bytes.Buffer
	PlotAccuracyTerminal(&buf, []int{40, 80, 0, 60}, dataset.RecognizerNames, 80)

	out := buf.String()
	assert.Contains(t, out, "out of 80")
	assert.Less(t, strings.Index(out, "$P "), strings.Index(out, "$P-RS"))
	assert.Less(t, strings.Index(out, "$P-RS"), strings.Index(out, "$1"))
	assert.Contains(t, out, strings.Repeat("█", 50)+" (100.0%)")
	assert.Contains(t, out, "▏ (0.0%)")
}

func BenchmarkTSNE(b *testing.B) {
	points, _ := twoClusters(40)
	params := DefaultTSNEParams()
	params.Iterations = 250

	b.ResetTimer()
	for b.Loop() {
		_, _ = TSNE(points, params)
	}
}
