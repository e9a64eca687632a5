package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/gesturebench/internal/analysis"
	"github.com/tensorplex-labs/gesturebench/internal/charts"
	"github.com/tensorplex-labs/gesturebench/internal/config"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
	"github.com/tensorplex-labs/gesturebench/internal/report"
	"github.com/tensorplex-labs/gesturebench/internal/utils/logger"
	"github.com/tensorplex-labs/gesturebench/internal/viewer"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting recognizer analysis...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	ds, err := dataset.Load(cfg.ScoreDataPath, dataset.DefaultLayout())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.ScoreDataPath).Msg("failed to load score data")
	}

	pipeline := analysis.NewPipeline(analysis.ConfigOptions(&cfg.AnalysisEnvConfig)...)
	res, err := pipeline.Process(ds)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}

	layout := ds.Layout()
	analysis.PlotAccuracyTerminal(os.Stdout, res.CorrectCounts, dataset.RecognizerNames, layout.Trials())

	gallery, err := charts.RenderAll(res, charts.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to render charts")
	}
	if err := gallery.WriteDir(cfg.OutputDir); err != nil {
		log.Fatal().Err(err).Msg("failed to write charts")
	}
	for _, name := range gallery.Names() {
		log.Info().Str("chart", cfg.ChartPath(name)).Msg("Chart written")
	}

	rep := report.New(res, time.Now())
	path, err := report.WriteFile(cfg.ReportPath, rep, cfg.ReportCompress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to write report")
	}
	log.Info().Str("report", path).Float64("accuracy", rep.Accuracy).
		Str("recognizer", rep.Selected).Msg("Report written")

	if !cfg.ViewerEnabled {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := viewer.NewServer(&cfg.ViewerEnvConfig, gallery, rep)
	if err := server.Start(ctx); err != nil {
		log.Error().Err(err).Msg("chart viewer stopped with error")
		return
	}
	log.Info().Msg("chart viewer stopped")
}
