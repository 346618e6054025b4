package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
	"github.com/spatial-analytics/internal/pkg/utils"
)

// lagModel - ML-оценка модели пространственного лага
// y = rho*W*y + X*beta + e (Anselin, метод концентрированного
// правдоподобия: rho ищется одномерно, beta восстанавливается из
// разложения остатков e0 - rho*ed).
type lagModel struct {
	// family различает sar и sdm: sdm есть sar над [X, W*X]
	family domain.ModelType
}

func (m *lagModel) Fit(y []float64, X *mat.Dense, names []string, w *domain.SpatialWeights) (*domain.RegressionResult, error) {
	n, p := X.Dims()
	if n != w.N {
		return nil, apperrors.Newf(apperrors.CodeRegressionError,
			"Design has %d rows but weight structure covers %d observations", n, w.N)
	}
	// оцениваются p коэффициентов, rho и sigma^2
	if n <= p+2 {
		return nil, apperrors.Newf(apperrors.CodeRegressionError,
			"Insufficient observations: %d rows for %d parameters", n, p+2)
	}

	wy := w.Lag(y)

	b0, e0, err := olsFit(X, y)
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeRegressionError, "Singular design matrix: %v", err)
	}
	bd, ed, err := olsFit(X, wy)
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeRegressionError, "Singular design matrix: %v", err)
	}

	eigs, err := w.Eigenvalues()
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeRegressionError, "Weight matrix eigenvalues: %v", err)
	}
	lo, hi, ok := paramInterval(eigs)
	if !ok {
		return nil, apperrors.New(apperrors.CodeRegressionError,
			"Degenerate weight matrix spectrum, rho interval undefined")
	}

	fn := float64(n)
	concentrated := func(rho float64) float64 {
		var sse float64
		for i := range e0 {
			r := e0[i] - rho*ed[i]
			sse += r * r
		}
		if sse <= 0 {
			return math.Inf(-1)
		}
		return -fn/2*(math.Log(2*math.Pi)+1) - fn/2*math.Log(sse/fn) + logJacobian(eigs, rho)
	}

	rho, converged := goldenMax(concentrated, lo, hi)
	if !converged || atBoundary(rho, lo, hi) {
		return nil, apperrors.New(apperrors.CodeRegressionError,
			"Maximum likelihood estimation of rho did not converge")
	}

	beta := make([]float64, p)
	for i := range beta {
		beta[i] = b0[i] - rho*bd[i]
	}
	resid := make([]float64, n)
	for i := range resid {
		resid[i] = e0[i] - rho*ed[i]
	}
	sigma2 := sumSquares(resid) / fn

	se, seRho, err := lagStdErrors(X, beta, rho, sigma2, w)
	if err != nil {
		return nil, err
	}

	coefficients := make([]domain.Coefficient, p)
	for i := range coefficients {
		z := beta[i] / se[i]
		coefficients[i] = domain.Coefficient{
			Variable:    names[i],
			Coefficient: beta[i],
			StdError:    se[i],
			PValue:      twoSidedP(z),
		}
	}

	// прогноз одношаговой формы rho*W*y + X*beta для псевдо-R2
	predicted := make([]float64, n)
	for i := range predicted {
		predicted[i] = y[i] - resid[i]
	}
	r2 := stat.Correlation(y, predicted, nil)
	pseudoR2 := r2 * r2

	return &domain.RegressionResult{
		Coefficients: coefficients,
		Spatial: domain.Coefficient{
			Variable:    "rho",
			Coefficient: rho,
			StdError:    seRho,
			PValue:      twoSidedP(rho / seRho),
		},
		LogLikelihood: concentrated(rho),
		PseudoR2:      &pseudoR2,
		ModelType:     m.family,
	}, nil
}

// lagStdErrors вычисляет асимптотические стандартные ошибки из
// аналитической информационной матрицы по (beta, rho, sigma^2)
func lagStdErrors(X *mat.Dense, beta []float64, rho, sigma2 float64, w *domain.SpatialWeights) (se []float64, seRho float64, err error) {
	n, p := X.Dims()

	wd := denseW(w.Dense())
	a := identityMinus(rho, wd)

	var invA mat.Dense
	if err := invA.Inverse(a); err != nil {
		return nil, 0, apperrors.Newf(apperrors.CodeRegressionError, "I - rho*W is singular: %v", err)
	}

	var wa mat.Dense
	wa.Mul(wd, &invA)
	tr1 := mat.Trace(&wa)

	var wa2 mat.Dense
	wa2.Mul(&wa, &wa)
	tr2 := mat.Trace(&wa2)

	var watwa mat.Dense
	watwa.Mul(wa.T(), &wa)
	tr3 := mat.Trace(&watwa)

	// P = W*(I - rho*W)^{-1}*X*beta
	var xb mat.VecDense
	xb.MulVec(X, mat.NewVecDense(p, beta))
	var pv mat.VecDense
	pv.MulVec(&wa, &xb)

	dim := p + 2
	info := mat.NewSymDense(dim, nil)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			info.SetSym(i, j, xtx.At(i, j)/sigma2)
		}
	}

	var xtp mat.VecDense
	xtp.MulVec(X.T(), &pv)
	for i := 0; i < p; i++ {
		info.SetSym(i, p, xtp.AtVec(i)/sigma2)
	}

	info.SetSym(p, p, tr2+tr3+mat.Dot(&pv, &pv)/sigma2)
	info.SetSym(p, p+1, tr1/sigma2)
	info.SetSym(p+1, p+1, float64(n)/(2*sigma2*sigma2))

	var cov mat.Dense
	if err := cov.Inverse(info); err != nil {
		return nil, 0, apperrors.Newf(apperrors.CodeRegressionError, "Information matrix is singular: %v", err)
	}

	se = make([]float64, p)
	for i := range se {
		se[i] = math.Sqrt(cov.At(i, i))
		if !utils.IsFinite(se[i]) || se[i] == 0 {
			return nil, 0, apperrors.New(apperrors.CodeRegressionError,
				"Asymptotic variance is not positive definite")
		}
	}
	seRho = math.Sqrt(cov.At(p, p))
	if !utils.IsFinite(seRho) || seRho == 0 {
		return nil, 0, apperrors.New(apperrors.CodeRegressionError,
			"Asymptotic variance is not positive definite")
	}
	return se, seRho, nil
}
