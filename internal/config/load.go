// Package config defines environment configuration structs and loaders.
package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	DatasetEnvConfig
	AnalysisEnvConfig
	ChartEnvConfig
	ReportEnvConfig
	ViewerEnvConfig
	CompareEnvConfig
	Environment string `env:"ENVIRONMENT" envDefault:"prod"`
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DatasetEnvConfig points at the experiment results file.
type DatasetEnvConfig struct {
	ScoreDataPath string `env:"SCORE_DATA_PATH" envDefault:"score_data.csv"`
}

// AnalysisEnvConfig selects the recognizer for the per-recognizer charts and tunes t-SNE.
type AnalysisEnvConfig struct {
	RecognizerIndex  int     `env:"RECOGNIZER_INDEX" envDefault:"3"`
	TSNEPerplexity   float64 `env:"TSNE_PERPLEXITY" envDefault:"30"`
	TSNESeed         uint64  `env:"TSNE_SEED" envDefault:"42"`
	TSNEIterations   int     `env:"TSNE_ITERATIONS" envDefault:"1000"`
	TSNELearningRate float64 `env:"TSNE_LEARNING_RATE" envDefault:"200"`
}

// ChartEnvConfig configures chart output.
type ChartEnvConfig struct {
	OutputDir   string `env:"OUTPUT_DIR" envDefault:"charts"`
	ChartWidth  int    `env:"CHART_WIDTH" envDefault:"1000"`
	ChartHeight int    `env:"CHART_HEIGHT" envDefault:"800"`
}

// ChartPath joins name onto the output directory.
func (c ChartEnvConfig) ChartPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}

// ReportEnvConfig configures the JSON report.
type ReportEnvConfig struct {
	ReportPath     string `env:"REPORT_PATH" envDefault:"charts/report.json"`
	ReportCompress bool   `env:"REPORT_COMPRESS" envDefault:"false"`
}

// ViewerEnvConfig configures the chart viewer.
type ViewerEnvConfig struct {
	ViewerEnabled bool   `env:"VIEWER_ENABLED" envDefault:"false"`
	Address       string `env:"VIEWER_ADDRESS" envDefault:"127.0.0.1"`
	Port          int    `env:"VIEWER_PORT" envDefault:"8090"`
	BodySizeLimit int    `env:"VIEWER_BODY_LIMIT" envDefault:"1048576"`
}

// CompareEnvConfig configures the recognizer comparison run.
type CompareEnvConfig struct {
	GestureSetPath string  `env:"GESTURE_SET_PATH" envDefault:"gestures.json"`
	ResamplePoints int     `env:"RESAMPLE_POINTS" envDefault:"64"`
	SquareSize     float64 `env:"SQUARE_SIZE" envDefault:"250"`
	WriteLabels    bool    `env:"WRITE_LABELS" envDefault:"true"`
}
