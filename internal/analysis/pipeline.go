package analysis

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/gesturebench/internal/config"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
	"github.com/tensorplex-labs/gesturebench/internal/utils/logger"
)

type Pipeline struct {
	Layout          dataset.Layout
	RecognizerIndex int
	TSNEParams      TSNEParams
}

type PipelineOption func(*Pipeline)

func WithLayout(layout dataset.Layout) PipelineOption {
	return func(p *Pipeline) {
		p.Layout = layout
	}
}

func WithRecognizer(idx int) PipelineOption {
	return func(p *Pipeline) {
		p.RecognizerIndex = idx
	}
}

func WithPerplexity(perplexity float64) PipelineOption {
	return func(p *Pipeline) {
		p.TSNEParams.Perplexity = perplexity
	}
}

func WithSeed(seed uint64) PipelineOption {
	return func(p *Pipeline) {
		p.TSNEParams.Seed = seed
	}
}

func WithIterations(iterations int) PipelineOption {
	return func(p *Pipeline) {
		p.TSNEParams.Iterations = iterations
	}
}

func WithLearningRate(rate float64) PipelineOption {
	return func(p *Pipeline) {
		p.TSNEParams.LearningRate = rate
	}
}

func WithTSNEParams(params TSNEParams) PipelineOption {
	return func(p *Pipeline) {
		p.TSNEParams = params
	}
}

// ConfigOptions maps the analysis environment configuration onto pipeline options.
func ConfigOptions(cfg *config.AnalysisEnvConfig) []PipelineOption {
	return []PipelineOption{
		WithRecognizer(cfg.RecognizerIndex),
		WithPerplexity(cfg.TSNEPerplexity),
		WithSeed(cfg.TSNESeed),
		WithIterations(cfg.TSNEIterations),
		WithLearningRate(cfg.TSNELearningRate),
	}
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		Layout:          dataset.DefaultLayout(),
		RecognizerIndex: DefaultRecognizerIndex,
		TSNEParams:      DefaultTSNEParams(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process computes the statistics behind all four charts. The confusion matrix and
// embedding are for p.RecognizerIndex.
func (p *Pipeline) Process(ds *dataset.Dataset) (*Result, error) {
	logger.Sugar().Infow("Processing with analysis params",
		"recognizer", dataset.RecognizerName(p.RecognizerIndex), "tsneParams", p.TSNEParams)
	startTime := time.Now()

	layout := ds.Layout()
	if layout != p.Layout {
		return nil, fmt.Errorf("%w: dataset layout %+v, pipeline layout %+v", dataset.ErrShape, layout, p.Layout)
	}

	selected, err := ds.Scores(p.RecognizerIndex)
	if err != nil {
		return nil, err
	}

	averaged, err := AverageSpendTime(ds.SpendTime(), layout.Repetitions)
	if err != nil {
		return nil, err
	}

	byClass, err := correctByRecognizer(ds)
	if err != nil {
		return nil, err
	}
	counts := sumCounts(byClass)
	for r := range counts {
		log.Debug().Str("recognizer", dataset.RecognizerName(r)).Int("correct", counts[r]).
			Msgf("recognizer %s predicted %d of %d trials correctly", dataset.RecognizerName(r), counts[r], layout.Trials())
	}

	labels := GroundTruth(layout)
	cm, err := NewConfusionMatrix(labels, Predict(selected), layout.Classes)
	if err != nil {
		return nil, err
	}

	embedding, err := TSNE(selected, p.TSNEParams)
	if err != nil {
		return nil, err
	}

	log.Debug().Float64("kl", embedding.KLDivergence).Dur("elapsed", time.Since(startTime)).
		Msg("Analysis finished")

	return &Result{
		Layout:           layout,
		RecognizerIndex:  p.RecognizerIndex,
		AverageSpendTime: averaged,
		CorrectCounts:    counts,
		CorrectByClass:   byClass,
		Confusion:        cm,
		Embedding:        embedding,
		Labels:           labels,
	}, nil
}
