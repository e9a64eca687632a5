// Package charts renders the experiment statistics as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tensorplex-labs/gesturebench/internal/analysis"
)

const (
	SpendTimeChart       = "spend_time.png"
	AccuracyChart        = "accuracy.png"
	ConfusionMatrixChart = "confusion_matrix.png"
	TSNEChart            = "tsne.png"
)

type Options struct {
	Width  int
	Height int
}

func DefaultOptions() Options {
	return Options{Width: 1000, Height: 800}
}

// Chart is one rendered image.
type Chart struct {
	Name string
	PNG  []byte
}

// Gallery holds rendered charts in render order.
type Gallery []Chart

// Get returns the chart called name.
func (g Gallery) Get(name string) ([]byte, bool) {
	for _, c := range g {
		if c.Name == name {
			return c.PNG, true
		}
	}
	return nil, false
}

func (g Gallery) Names() []string {
	names := make([]string, len(g))
	for i, c := range g {
		names[i] = c.Name
	}
	return names
}

// WriteDir writes every chart into dir, creating it when needed.
func (g Gallery) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	for _, c := range g {
		outPath := filepath.Join(dir, c.Name)
		if err := os.WriteFile(outPath, c.PNG, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		log.Info().Str("path", outPath).Int("bytes", len(c.PNG)).Msg("Wrote chart")
	}
	return nil
}

// RenderAll renders the four charts of an analysis result.
func RenderAll(res *analysis.Result, opts Options) (Gallery, error) {
	toRender := []struct {
		name string
		fn   func(*bytes.Buffer) error
	}{
		{SpendTimeChart, func(buf *bytes.Buffer) error { return RenderSpendTime(buf, res.AverageSpendTime, opts) }},
		{AccuracyChart, func(buf *bytes.Buffer) error {
			return RenderAccuracy(buf, res.CorrectCounts, res.Layout.Trials(), opts)
		}},
		{ConfusionMatrixChart, func(buf *bytes.Buffer) error {
			return RenderConfusionMatrix(buf, res.Confusion, res.RecognizerIndex, opts)
		}},
		{TSNEChart, func(buf *bytes.Buffer) error {
			return RenderTSNE(buf, res.Embedding, res.Labels, res.RecognizerIndex, opts)
		}},
	}

	gallery := make(Gallery, 0, len(toRender))
	for _, item := range toRender {
		var buf bytes.Buffer
		if err := item.fn(&buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", item.name, err)
		}
		gallery = append(gallery, Chart{Name: item.name, PNG: buf.Bytes()})
	}
	return gallery, nil
}

var namedColors = map[string]drawing.Color{
	"red":    drawing.ColorFromHex("ff0000"),
	"green":  drawing.ColorFromHex("008000"),
	"blue":   drawing.ColorFromHex("0000ff"),
	"purple": drawing.ColorFromHex("800080"),
}

// gesturePalette is a 16-entry categorical palette, one color per gesture class.
var gesturePalette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"), drawing.ColorFromHex("ff7f0e"), drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"), drawing.ColorFromHex("9467bd"), drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"), drawing.ColorFromHex("7f7f7f"), drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"), drawing.ColorFromHex("aec7e8"), drawing.ColorFromHex("ffbb78"),
	drawing.ColorFromHex("98df8a"), drawing.ColorFromHex("ff9896"), drawing.ColorFromHex("c5b0d5"),
	drawing.ColorFromHex("c49c94"),
}

func recognizerColor(name string) drawing.Color {
	if c, ok := namedColors[name]; ok {
		return c
	}
	return chart.ColorAlternateGray
}

func gestureColor(class int) drawing.Color {
	return gesturePalette[class%len(gesturePalette)]
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

var gridStyle = chart.Style{
	StrokeColor: drawing.ColorFromHex("dddddd"),
	StrokeWidth: 1,
}

func chartBackground() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}}
}
