// Package report serialises analysis results for machine consumption.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorplex-labs/gesturebench/internal/analysis"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

const CompressedSuffix = ".zst"

type RecognizerSummary struct {
	Name             string    `json:"name"`
	Correct          int       `json:"correct"`
	Trials           int       `json:"trials"`
	CorrectByClass   []int     `json:"correct_by_class"`
	AverageSpendTime []float64 `json:"average_spend_time_ms"`
}

type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Class int     `json:"class"`
}

type Report struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	Recognizers     int                 `json:"recognizers"`
	Classes         int                 `json:"classes"`
	Repetitions     int                 `json:"repetitions"`
	Gestures        []string            `json:"gestures"`
	Summaries       []RecognizerSummary `json:"summaries"`
	Selected        string              `json:"selected_recognizer"`
	SelectedIndex   int                 `json:"selected_index"`
	ConfusionMatrix [][]int             `json:"confusion_matrix"`
	Accuracy        float64             `json:"accuracy"`
	Embedding       []Point             `json:"embedding"`
	KLDivergence    float64             `json:"kl_divergence"`
}

// New builds a report from an analysis result.
func New(res *analysis.Result, generatedAt time.Time) *Report {
	layout := res.Layout
	rep := &Report{
		GeneratedAt:   generatedAt.UTC(),
		Recognizers:   layout.Recognizers,
		Classes:       layout.Classes,
		Repetitions:   layout.Repetitions,
		Gestures:      make([]string, layout.Classes),
		Summaries:     make([]RecognizerSummary, layout.Recognizers),
		Selected:      dataset.RecognizerName(res.RecognizerIndex),
		SelectedIndex: res.RecognizerIndex,
	}
	for c := range layout.Classes {
		rep.Gestures[c] = dataset.GestureName(c)
	}
	for r := range layout.Recognizers {
		rep.Summaries[r] = RecognizerSummary{
			Name:             dataset.RecognizerName(r),
			Correct:          res.CorrectCounts[r],
			Trials:           layout.Trials(),
			CorrectByClass:   res.CorrectByClass[r],
			AverageSpendTime: mat.Row(nil, r, res.AverageSpendTime),
		}
	}
	if res.Confusion != nil {
		rep.ConfusionMatrix = res.Confusion.Counts
		rep.Accuracy = res.Confusion.Accuracy()
	}
	if res.Embedding != nil {
		rows, _ := res.Embedding.Points.Dims()
		rep.Embedding = make([]Point, rows)
		for i := range rows {
			rep.Embedding[i] = Point{X: res.Embedding.Points.At(i, 0), Y: res.Embedding.Points.At(i, 1), Class: res.Labels[i]}
		}
		rep.KLDivergence = res.Embedding.KLDivergence
	}
	return rep
}

// Encode marshals rep to JSON, zstd-compressed when compress is set.
func Encode(rep *Report, compress bool) ([]byte, error) {
	data, err := sonic.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	if !compress {
		return data, nil
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("compress report: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress report: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(data []byte, compressed bool) (*Report, error) {
	if compressed {
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer r.Close()
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("decompress report: %w", err)
		}
	}

	var rep Report
	if err := sonic.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}

// WriteFile encodes rep to path and returns the path actually written, which gains
// CompressedSuffix when compress is set.
func WriteFile(path string, rep *Report, compress bool) (string, error) {
	data, err := Encode(rep, compress)
	if err != nil {
		return "", err
	}
	if compress && !strings.HasSuffix(path, CompressedSuffix) {
		path += CompressedSuffix
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// ReadFile loads a report written by WriteFile.
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return Decode(data, strings.HasSuffix(path, CompressedSuffix))
}
