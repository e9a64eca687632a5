package charts

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

// RenderAccuracy draws one bar per recognizer with the y axis fixed to [0, total].
func RenderAccuracy(w io.Writer, counts []int, total int, opts Options) error {
	if len(counts) == 0 {
		return fmt.Errorf("accuracy chart: no recognizers")
	}
	if total <= 0 {
		return fmt.Errorf("accuracy chart: total must be positive, got %d", total)
	}

	bars := make([]chart.Value, len(counts))
	for r, c := range counts {
		col := recognizerColor(colorName(r))
		bars[r] = chart.Value{
			Value: float64(c),
			Label: fmt.Sprintf("%s (%d)", dataset.RecognizerName(r), c),
			Style: chart.Style{FillColor: col, StrokeColor: col},
		}
	}

	ticks := make([]chart.Tick, 0, 5)
	for i := range 5 {
		v := float64(total) * float64(i) / 4
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}

	barWidth := opts.Width / (2*len(counts) + 1)
	bc := chart.BarChart{
		Title:      fmt.Sprintf("Correct Predictions per Recognizer (out of %d)", total),
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		Background: chartBackground(),
		YAxis: chart.YAxis{
			Name:           "Correct Predictions",
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(total)},
			Ticks:          ticks,
			GridMajorStyle: gridStyle,
		},
		Bars: bars,
	}

	return bc.Render(chart.PNG, w)
}
