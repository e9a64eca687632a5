package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// Load reads a results file from path. See Parse for the accepted format.
func Load(path string, layout Layout) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f, layout)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("rows", layout.Rows()).Msg("Loaded results file")
	return ds, nil
}

type header struct {
	numeric    []int // column positions of scores then elapsed time
	recognizer int   // -1 when absent
	gesture    int   // -1 when absent
}

// Parse reads a results table: a header row followed by layout.Rows() data rows of
// layout.Classes scores and one elapsed time. When the header carries Recognizer and
// Gesture columns every row is checked against the position the layout assigns it.
func Parse(r io.Reader, layout Layout) (*Dataset, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrShape)
		}
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}
	h, err := parseHeader(first, layout)
	if err != nil {
		return nil, err
	}
	if h.recognizer < 0 || h.gesture < 0 {
		log.Debug().Msg("Results file has no label columns, row ordering is assumed")
	}

	table := mat.NewDense(layout.Rows(), layout.Columns(), nil)
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if row >= layout.Rows() {
			return nil, fmt.Errorf("%w: more than %d data rows", ErrShape, layout.Rows())
		}
		if len(record) != len(first) {
			return nil, fmt.Errorf("%w: row %d has %d columns, header has %d", ErrShape, row+1, len(record), len(first))
		}
		if err := h.checkOrder(record, row, layout); err != nil {
			return nil, err
		}
		for j, col := range h.numeric {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %q", ErrParse, row+1, col, record[col])
			}
			table.Set(row, j, v)
		}
		row++
	}
	if row != layout.Rows() {
		return nil, fmt.Errorf("%w: got %d data rows, want %d", ErrShape, row, layout.Rows())
	}

	return FromTable(table, layout)
}

func parseHeader(names []string, layout Layout) (header, error) {
	h := header{recognizer: -1, gesture: -1}
	for i, name := range names {
		switch strings.TrimSpace(name) {
		case RecognizerColumn:
			h.recognizer = i
		case GestureColumn:
			h.gesture = i
		default:
			h.numeric = append(h.numeric, i)
		}
	}
	if len(h.numeric) != layout.Columns() {
		return h, fmt.Errorf("%w: got %d numeric columns, want %d", ErrShape, len(h.numeric), layout.Columns())
	}
	return h, nil
}

func (h header) checkOrder(record []string, row int, layout Layout) error {
	trials := layout.Trials()
	if h.recognizer >= 0 {
		want := row / trials
		got, ok := labelIndex(record[h.recognizer], RecognizerNames)
		if !ok || got != want {
			return fmt.Errorf("%w: row %d labelled recognizer %q, layout expects %d", ErrOrdering, row+1, record[h.recognizer], want)
		}
	}
	if h.gesture >= 0 {
		want := layout.ClassOf(row % trials)
		got, ok := labelIndex(record[h.gesture], GestureNames)
		if !ok || got != want {
			return fmt.Errorf("%w: row %d labelled gesture %q, layout expects %d", ErrOrdering, row+1, record[h.gesture], want)
		}
	}
	return nil
}

// labelIndex accepts either an index or one of names.
func labelIndex(value string, names []string) (int, bool) {
	value = strings.TrimSpace(value)
	if i, err := strconv.Atoi(value); err == nil {
		return i, true
	}
	i := slices.IndexFunc(names, func(n string) bool { return strings.EqualFold(n, value) })
	return i, i >= 0
}

// Write emits ds in the results file format. withLabels appends Recognizer and Gesture
// index columns so that the ordering can be verified when the file is read back.
func Write(w io.Writer, ds *Dataset, withLabels bool) error {
	layout := ds.Layout()
	cw := csv.NewWriter(w)

	head := make([]string, 0, layout.Columns()+2)
	for c := range layout.Classes {
		head = append(head, ScoreColumnPrefix+strconv.Itoa(c))
	}
	head = append(head, SpendTimeColumn)
	if withLabels {
		head = append(head, RecognizerColumn, GestureColumn)
	}
	if err := cw.Write(head); err != nil {
		return err
	}

	table := ds.Table()
	trials := layout.Trials()
	record := make([]string, len(head))
	for i := range layout.Rows() {
		for j := range layout.Columns() {
			record[j] = strconv.FormatFloat(table.At(i, j), 'f', valuePrecision, 64)
		}
		if withLabels {
			record[layout.Columns()] = strconv.Itoa(i / trials)
			record[layout.Columns()+1] = strconv.Itoa(layout.ClassOf(i % trials))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes ds to path, see Write.
func WriteFile(path string, ds *Dataset, withLabels bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	if err := Write(f, ds, withLabels); err != nil {
		_ = f.Close()
		return fmt.Errorf("write results file: %w", err)
	}
	return f.Close()
}
