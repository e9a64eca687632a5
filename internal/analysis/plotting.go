package analysis

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const maxBarWidth = 50

// PlotAccuracyTerminal prints correct-prediction counts as horizontal bars scaled to total,
// highest first.
func PlotAccuracyTerminal(w io.Writer, counts []int, names []string, total int) {
	type RecognizerCount struct {
		Name    string
		Correct int
	}

	rows := make([]RecognizerCount, len(counts))
	for i := range counts {
		name := fmt.Sprintf("R%d", i)
		if i < len(names) {
			name = names[i]
		}
		rows[i] = RecognizerCount{Name: name, Correct: counts[i]}
	}

	// Sort by count in descending order, stable so equal counts keep file order
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Correct > rows[j].Correct
	})

	fmt.Fprintf(w, "\nCorrect Predictions per Recognizer (out of %d):\n", total)
	fmt.Fprintln(w, "Recognizer  | Correct | Bar Chart")
	fmt.Fprintln(w, "------------|---------|"+strings.Repeat("-", maxBarWidth))

	for _, rc := range rows {
		var barWidth int
		if total > 0 {
			barWidth = rc.Correct * maxBarWidth / total
		}

		bar := strings.Repeat("█", barWidth)
		if barWidth == 0 {
			bar = "▏"
		}

		pct := 0.0
		if total > 0 {
			pct = 100 * float64(rc.Correct) / float64(total)
		}
		fmt.Fprintf(w, "%-11s | %7d | %s (%.1f%%)\n", rc.Name, rc.Correct, bar, pct)
	}
}
