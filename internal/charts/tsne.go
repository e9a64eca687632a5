package charts

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/tensorplex-labs/gesturebench/internal/analysis"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

// RenderTSNE scatter-plots an embedding with one dot-only series per gesture class.
func RenderTSNE(w io.Writer, emb *analysis.Embedding, labels []int, recognizer int, opts Options) error {
	if emb == nil || emb.Points == nil {
		return fmt.Errorf("tsne chart: no embedding")
	}
	rows, _ := emb.Points.Dims()
	if rows != len(labels) {
		return fmt.Errorf("tsne chart: %d points for %d labels", rows, len(labels))
	}

	classes := 0
	for i, l := range labels {
		if l < 0 {
			return fmt.Errorf("tsne chart: point %d has negative label %d", i, l)
		}
		classes = max(classes, l+1)
	}
	xs := make([][]float64, classes)
	ys := make([][]float64, classes)
	for i, l := range labels {
		xs[l] = append(xs[l], emb.Points.At(i, 0))
		ys[l] = append(ys[l], emb.Points.At(i, 1))
	}

	series := make([]chart.Series, 0, classes)
	for class := range classes {
		if len(xs[class]) == 0 {
			continue
		}
		col := gestureColor(class).WithAlpha(180)
		series = append(series, chart.ContinuousSeries{
			Name:    dataset.GestureName(class),
			XValues: xs[class],
			YValues: ys[class],
			Style:   pointStyle(col),
		})
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("TSNE (%s)", dataset.RecognizerName(recognizer)),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 200, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range:          valueRange(minMaxCol(emb, 0)),
			ValueFormatter: chart.FloatValueFormatter,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Range:          valueRange(minMaxCol(emb, 1)),
			ValueFormatter: chart.FloatValueFormatter,
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	return ch.Render(chart.PNG, w)
}

func minMaxCol(emb *analysis.Embedding, col int) (lo, hi float64) {
	rows, _ := emb.Points.Dims()
	for i := range rows {
		v := emb.Points.At(i, col)
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}
