package charts

import (
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

// RenderSpendTime draws one line per recognizer of average elapsed time per gesture
// class, classes numbered from 1.
func RenderSpendTime(w io.Writer, averaged *mat.Dense, opts Options) error {
	rows, cols := averaged.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("spend time chart: no data")
	}

	xs := make([]float64, cols)
	ticks := make([]chart.Tick, cols)
	for c := range cols {
		xs[c] = float64(c + 1)
		ticks[c] = chart.Tick{Value: xs[c], Label: strconv.Itoa(c + 1)}
	}

	series := make([]chart.Series, 0, rows)
	for r := range rows {
		col := recognizerColor(colorName(r))
		series = append(series, chart.ContinuousSeries{
			Name:    dataset.RecognizerName(r),
			XValues: xs,
			YValues: mat.Row(nil, r, averaged),
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    4,
			},
		})
	}

	ch := chart.Chart{
		Title:      "Average Spend Time",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chartBackground(),
		XAxis: chart.XAxis{
			Name:           "Gesture",
			Range:          &chart.ContinuousRange{Min: 0.5, Max: float64(cols) + 0.5},
			Ticks:          ticks,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           "Average Spend Time (ms)",
			Range:          valueRange(mat.Min(averaged), mat.Max(averaged)),
			ValueFormatter: chart.FloatValueFormatter,
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.PNG, w)
}

func colorName(r int) string {
	if r < len(dataset.RecognizerColors) {
		return dataset.RecognizerColors[r]
	}
	return ""
}

// valueRange pads the data extent by 5% and keeps it non-empty, go-chart refuses a
// zero-width range.
func valueRange(lo, hi float64) *chart.ContinuousRange {
	if hi == lo {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
