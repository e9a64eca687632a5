package charts

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/gesturebench/internal/analysis"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

func testResult(t *testing.T) *analysis.Result {
	t.Helper()
	layout := dataset.DefaultLayout()

	avg := mat.NewDense(layout.Recognizers, layout.Classes, nil)
	for r := range layout.Recognizers {
		for c := range layout.Classes {
			avg.Set(r, c, float64(r+1)*0.5+float64(c)*0.1)
		}
	}

	labels := analysis.GroundTruth(layout)
	pred := make([]int, len(labels))
	points := mat.NewDense(len(labels), 2, nil)
	for i, l := range labels {
		pred[i] = l
		if i%5 == 0 {
			pred[i] = (l + 1) % layout.Classes
		}
		points.Set(i, 0, float64(l)+0.1*float64(i%5))
		points.Set(i, 1, float64(-l)+0.05*float64(i%5))
	}
	cm, err := analysis.NewConfusionMatrix(labels, pred, layout.Classes)
	require.NoError(t, err)

	return &analysis.Result{
		Layout:           layout,
		RecognizerIndex:  3,
		AverageSpendTime: avg,
		CorrectCounts:    []int{80, 64, 0, 71},
		CorrectByClass:   make([][]int, layout.Recognizers),
		Confusion:        cm,
		Embedding:        &analysis.Embedding{Points: points},
		Labels:           labels,
	}
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRenderAll(t *testing.T) {
	res := testResult(t)
	opts := DefaultOptions()

	gallery, err := RenderAll(res, opts)
	require.NoError(t, err)
	require.Equal(t, []string{SpendTimeChart, AccuracyChart, ConfusionMatrixChart, TSNEChart}, gallery.Names())

	for _, c := range gallery {
		w, h := decodeSize(t, c.PNG)
		assert.Equal(t, opts.Width, w, c.Name)
		assert.Equal(t, opts.Height, h, c.Name)
	}

	data, ok := gallery.Get(TSNEChart)
	assert.True(t, ok)
	assert.NotEmpty(t, data)
	_, ok = gallery.Get("missing.png")
	assert.False(t, ok)
}

func TestGalleryWriteDir(t *testing.T) {
	gallery, err := RenderAll(testResult(t), DefaultOptions())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "nested", "charts")
	require.NoError(t, gallery.WriteDir(dir))

	for _, name := range gallery.Names() {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestRenderSpendTimeFlatData(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSpendTime(&buf, mat.NewDense(4, 16, nil), DefaultOptions())
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()

	assert.Error(t, RenderAccuracy(&buf, nil, 80, opts))
	assert.Error(t, RenderAccuracy(&buf, []int{1}, 0, opts))
	assert.Error(t, RenderConfusionMatrix(&buf, nil, 0, opts))
	assert.Error(t, RenderTSNE(&buf, nil, nil, 0, opts))
	assert.Error(t, RenderTSNE(&buf, &analysis.Embedding{Points: mat.NewDense(2, 2, nil)}, []int{0}, 0, opts))
	assert.Error(t, RenderTSNE(&buf, &analysis.Embedding{Points: mat.NewDense(1, 2, nil)}, []int{-1}, 0, opts))

	cm, err := analysis.NewConfusionMatrix([]int{0}, []int{0}, 16)
	require.NoError(t, err)
	assert.Error(t, RenderConfusionMatrix(&buf, cm, 0, Options{Width: 100, Height: 100}))
}

func TestBluesAt(t *testing.T) {
	assert.Equal(t, blues[0], bluesAt(0))
	assert.Equal(t, blues[len(blues)-1], bluesAt(1))
	assert.Equal(t, blues[0], bluesAt(-3))
	assert.Equal(t, blues[len(blues)-1], bluesAt(7))
	assert.Equal(t, blues[4], bluesAt(0.5))
}

func TestRecognizerColor(t *testing.T) {
	assert.Equal(t, namedColors["purple"], recognizerColor(colorName(3)))
	assert.Equal(t, namedColors["red"], recognizerColor(colorName(0)))
}
