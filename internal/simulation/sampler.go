package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/lifebeyond/planner-api/internal/models"
)

// returnSampler draws one correlated return vector per year and collapses it
// into a portfolio-level return through the allocation weights.
type returnSampler struct {
	weights []float64
	mu      []float64
	vol     []float64

	normal    *distmv.Normal
	transform *mat.Dense
	rng       *rand.Rand
	buf       []float64
	z         []float64
}

func newReturnSampler(u *models.UserData, src rand.Source) *returnSampler {
	n := len(models.AssetClasses)

	s := &returnSampler{
		weights: make([]float64, n),
		mu:      make([]float64, n),
		vol:     make([]float64, n),
		buf:     make([]float64, n),
		z:       make([]float64, n),
	}
	for i, asset := range models.AssetClasses {
		s.weights[i] = u.AssetAllocation[asset]
		if u.MeanReturns != nil {
			s.mu[i] = u.MeanReturns[i]
		} else {
			s.mu[i] = models.DefaultMeanReturns[asset]
		}
		if u.Volatility != nil {
			s.vol[i] = u.Volatility[i]
		} else {
			s.vol[i] = models.DefaultVolatility[asset]
		}
	}

	corr := u.CorrelationMatrix
	if corr == nil {
		corr = models.DefaultCorrelation
	}
	cov := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cov[i*n+j] = s.vol[i] * s.vol[j] * corr[i][j]
		}
	}
	sym := mat.NewSymDense(n, cov)

	// A singular covariance (zero volatility, perfectly correlated assets)
	// has no Cholesky factor, which distmv requires. Fall back to an
	// eigendecomposition transform so degenerate covariances still draw
	// with the requested correlation structure; with zero volatility the
	// transform is zero and draws are exactly the mean returns.
	if normal, ok := distmv.NewNormal(s.mu, sym, src); ok {
		s.normal = normal
		return s
	}
	s.rng = rand.New(src)

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return s
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	transform := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		sd := 0.0
		if values[j] > 0 {
			sd = math.Sqrt(values[j])
		}
		for i := 0; i < n; i++ {
			transform.Set(i, j, vectors.At(i, j)*sd)
		}
	}
	s.transform = transform
	return s
}

func (s *returnSampler) portfolioReturn() float64 {
	switch {
	case s.normal != nil:
		s.normal.Rand(s.buf)
	case s.transform != nil:
		for i := range s.z {
			s.z[i] = s.rng.NormFloat64()
		}
		out := mat.NewVecDense(len(s.buf), s.buf)
		out.MulVec(s.transform, mat.NewVecDense(len(s.z), s.z))
		floats.Add(s.buf, s.mu)
	default:
		// Last resort when the covariance cannot even be factorized:
		// independent per-asset draws.
		for i := range s.buf {
			s.buf[i] = s.mu[i] + s.vol[i]*s.rng.NormFloat64()
		}
	}
	return floats.Dot(s.weights, s.buf)
}
