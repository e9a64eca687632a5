package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tensorplex-labs/gesturebench/internal/analysis"
	"github.com/tensorplex-labs/gesturebench/internal/charts"
	"github.com/tensorplex-labs/gesturebench/internal/config"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

const allCharts = "All charts"

type model struct {
	recognizers   []string
	charts        []string
	cursor        int
	selectedIndex int // chosen recognizer; -1 until chosen
	ds            *dataset.Dataset
	cfg           *config.AppConfig
}

func initialModel() *model {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ds, err := dataset.Load(cfg.ScoreDataPath, dataset.DefaultLayout())
	if err != nil {
		fmt.Printf("Error loading score data: %v\n", err)
		os.Exit(1)
	}

	return &model{
		recognizers: dataset.RecognizerNames,
		charts: []string{
			charts.SpendTimeChart, charts.AccuracyChart,
			charts.ConfusionMatrixChart, charts.TSNEChart, allCharts,
		},
		cursor:        0,
		selectedIndex: -1,
		ds:            ds,
		cfg:           cfg,
	}
}

func (m *model) choices() []string {
	if m.selectedIndex < 0 {
		return m.recognizers
	}
	return m.charts
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint
	switch msg := msg.(type) { //nolint
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices())-1 {
				m.cursor++
			}

		// esc goes back to the recognizer list
		case "esc":
			if m.selectedIndex >= 0 {
				m.cursor = m.selectedIndex
				m.selectedIndex = -1
			}

		case "enter":
			if m.selectedIndex < 0 {
				m.selectedIndex = m.cursor
				m.cursor = 0
				return m, nil
			}

			if err := m.render(m.charts[m.cursor]); err != nil {
				fmt.Printf("Error rendering charts: %v\n", err)
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *model) render(choice string) error {
	name := dataset.RecognizerName(m.selectedIndex)
	fmt.Printf("Analysing %s...\n", name)

	opts := append(analysis.ConfigOptions(&m.cfg.AnalysisEnvConfig), analysis.WithRecognizer(m.selectedIndex))
	res, err := analysis.NewPipeline(opts...).Process(m.ds)
	if err != nil {
		return err
	}

	gallery, err := charts.RenderAll(res, charts.Options{Width: m.cfg.ChartWidth, Height: m.cfg.ChartHeight})
	if err != nil {
		return err
	}

	if choice != allCharts {
		png, _ := gallery.Get(choice)
		gallery = charts.Gallery{{Name: choice, PNG: png}}
	}
	if err := gallery.WriteDir(m.cfg.OutputDir); err != nil {
		return err
	}

	for _, chartName := range gallery.Names() {
		fmt.Printf("Wrote %s\n", m.cfg.ChartPath(chartName))
	}
	fmt.Printf("%s classified %.1f%% of trials correctly\n", name, 100*res.Confusion.Accuracy())
	return nil
}

func (m *model) View() string {
	s := "Select a recognizer:\n\n"
	if m.selectedIndex >= 0 {
		s = fmt.Sprintf("Recognizer %s. Select a chart:\n\n", dataset.RecognizerName(m.selectedIndex))
	}

	for i, choice := range m.choices() {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s += fmt.Sprintf("%s %s\n", cursor, choice)
	}

	if m.selectedIndex >= 0 {
		s += "\nPress esc to go back, q to quit.\n"
	} else {
		s += "\nPress q to quit.\n"
	}
	return s
}

func (m *model) Init() tea.Cmd {
	return nil
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
