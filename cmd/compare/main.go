package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/gesturebench/internal/config"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
	"github.com/tensorplex-labs/gesturebench/internal/experiment"
	"github.com/tensorplex-labs/gesturebench/internal/recognizer"
	"github.com/tensorplex-labs/gesturebench/internal/utils/logger"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting recognizer comparison...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	set, err := experiment.LoadGestureSet(cfg.GestureSetPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.GestureSetPath).Msg("failed to load gesture set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := experiment.RunOptions{ResamplePoints: cfg.ResamplePoints, SquareSize: cfg.SquareSize}
	ds, err := experiment.Run(ctx, set, recognizer.DefaultSuite(), dataset.DefaultLayout(), opts)
	if err != nil {
		log.Fatal().Err(err).Msg("comparison failed")
	}

	if err := dataset.WriteFile(cfg.ScoreDataPath, ds, cfg.WriteLabels); err != nil {
		log.Fatal().Err(err).Msg("failed to write score data")
	}
	log.Info().Str("path", cfg.ScoreDataPath).Bool("labels", cfg.WriteLabels).Msg("Score data written")
}
