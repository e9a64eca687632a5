package analysis

const DefaultRecognizerIndex = 3 // $P-RS

func DefaultTSNEParams() TSNEParams {
	return TSNEParams{
		Perplexity:        30,
		Seed:              42,
		Iterations:        1000,
		LearningRate:      200,
		EarlyExaggeration: 12,
		ExaggerationIters: 250,
	}
}
