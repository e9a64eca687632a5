package analysis

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	tsneDims            = 2
	perplexityTolerance = 1e-5
	perplexitySteps     = 100
	minProbability      = 1e-12
	minGain             = 0.01
	momentumSwitchIter  = 250
	initialMomentum     = 0.5
	finalMomentum       = 0.8
	initialScale        = 1e-4
)

// TSNE embeds the rows of points in two dimensions with exact t-SNE. The random
// initialisation comes from params.Seed, so equal inputs give equal embeddings.
func TSNE(points mat.Matrix, params TSNEParams) (*Embedding, error) {
	n, _ := points.Dims()
	if params.Perplexity <= 0 || params.Perplexity >= float64(n) {
		return nil, fmt.Errorf("%w: perplexity %.2f for %d points", ErrPerplexity, params.Perplexity, n)
	}
	if params.Iterations <= 0 {
		return nil, fmt.Errorf("tsne: iterations must be positive, got %d", params.Iterations)
	}
	exaggeration := params.EarlyExaggeration
	if exaggeration <= 0 {
		exaggeration = 1
	}
	learningRate := params.LearningRate
	if learningRate <= 0 {
		learningRate = math.Max(float64(n)/exaggeration/4, 50)
	}

	p := jointProbabilities(squaredDistances(points), params.Perplexity)

	rng := rand.New(rand.NewPCG(params.Seed, params.Seed))
	y := mat.NewDense(n, tsneDims, nil)
	for i := range n {
		for k := range tsneDims {
			y.Set(i, k, initialScale*rng.NormFloat64())
		}
	}

	update := mat.NewDense(n, tsneDims, nil)
	gains := mat.NewDense(n, tsneDims, nil)
	for i := range n {
		floats.AddConst(1, gains.RawRowView(i))
	}
	grad := mat.NewDense(n, tsneDims, nil)
	num := mat.NewDense(n, n, nil)

	for iter := range params.Iterations {
		exag := 1.0
		if iter < params.ExaggerationIters {
			exag = exaggeration
		}
		momentum := finalMomentum
		if iter < momentumSwitchIter {
			momentum = initialMomentum
		}

		sumNum := studentT(y, num)
		gradient(p, num, sumNum, exag, y, grad)

		for i := range n {
			g, u, gn, yi := grad.RawRowView(i), update.RawRowView(i), gains.RawRowView(i), y.RawRowView(i)
			for k := range tsneDims {
				if g[k]*u[k] < 0 {
					gn[k] += 0.2
				} else {
					gn[k] *= 0.8
				}
				gn[k] = math.Max(gn[k], minGain)
				u[k] = momentum*u[k] - learningRate*gn[k]*g[k]
				yi[k] += u[k]
			}
		}
		recenter(y)
	}

	sumNum := studentT(y, num)
	return &Embedding{Points: y, KLDivergence: klDivergence(p, num, sumNum)}, nil
}

func squaredDistances(points mat.Matrix) *mat.Dense {
	n, _ := points.Dims()
	d := mat.NewDense(n, n, nil)
	rows := make([][]float64, n)
	for i := range n {
		rows[i] = mat.Row(nil, i, points)
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			dist := floats.Distance(rows[i], rows[j], 2)
			d.Set(i, j, dist*dist)
			d.Set(j, i, dist*dist)
		}
	}
	return d
}

// jointProbabilities calibrates a Gaussian per point so that its conditional
// distribution has the requested perplexity, then symmetrises and normalises.
func jointProbabilities(dist *mat.Dense, perplexity float64) *mat.Dense {
	n, _ := dist.Dims()
	target := math.Log(perplexity)
	cond := mat.NewDense(n, n, nil)

	for i := range n {
		di := dist.RawRowView(i)
		pi := cond.RawRowView(i)
		beta, betaMin, betaMax := 1.0, math.Inf(-1), math.Inf(1)

		for range perplexitySteps {
			var sumP, sumDP float64
			for j := range n {
				if j == i {
					pi[j] = 0
					continue
				}
				pi[j] = math.Exp(-di[j] * beta)
				sumP += pi[j]
				sumDP += di[j] * pi[j]
			}
			if sumP == 0 {
				sumP = minProbability
			}
			floats.Scale(1/sumP, pi)
			entropy := math.Log(sumP) + beta*sumDP/sumP

			diff := entropy - target
			if math.Abs(diff) <= perplexityTolerance {
				break
			}
			if diff > 0 {
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}
	}

	joint := mat.NewDense(n, n, nil)
	joint.Add(cond, cond.T())
	joint.Scale(1/(2*float64(n)), joint)
	for i := range n {
		row := joint.RawRowView(i)
		for j := range row {
			if i != j {
				row[j] = math.Max(row[j], minProbability)
			}
		}
	}
	return joint
}

// studentT fills num with the heavy-tailed kernel 1/(1+|yi-yj|^2) and returns its sum.
func studentT(y, num *mat.Dense) float64 {
	n, _ := y.Dims()
	var sum float64
	for i := range n {
		yi := y.RawRowView(i)
		num.Set(i, i, 0)
		for j := i + 1; j < n; j++ {
			dist := floats.Distance(yi, y.RawRowView(j), 2)
			v := 1 / (1 + dist*dist)
			num.Set(i, j, v)
			num.Set(j, i, v)
			sum += 2 * v
		}
	}
	return sum
}

func gradient(p, num *mat.Dense, sumNum, exag float64, y, grad *mat.Dense) {
	n, _ := y.Dims()
	grad.Zero()
	for i := range n {
		gi := grad.RawRowView(i)
		yi := y.RawRowView(i)
		for j := range n {
			if i == j {
				continue
			}
			nij := num.At(i, j)
			mult := 4 * (exag*p.At(i, j) - math.Max(nij/sumNum, minProbability)) * nij
			yj := y.RawRowView(j)
			for k := range tsneDims {
				gi[k] += mult * (yi[k] - yj[k])
			}
		}
	}
}

func recenter(y *mat.Dense) {
	n, dims := y.Dims()
	for k := range dims {
		col := mat.Col(nil, k, y)
		mean := stat.Mean(col, nil)
		for i := range n {
			y.Set(i, k, y.At(i, k)-mean)
		}
	}
}

func klDivergence(p, num *mat.Dense, sumNum float64) float64 {
	n, _ := p.Dims()
	var kl float64
	for i := range n {
		for j := range n {
			if i == j {
				continue
			}
			pij := p.At(i, j)
			qij := math.Max(num.At(i, j)/sumNum, minProbability)
			kl += pij * math.Log(pij/qij)
		}
	}
	return kl
}
