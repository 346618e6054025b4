package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
	"github.com/spatial-analytics/internal/pkg/utils"
)

// errorModel - ML-оценка модели пространственной ошибки
// y = X*beta + u, u = lambda*W*u + e. Lambda концентрируется через
// пространственный фильтр (y - lambda*W*y на X - lambda*W*X),
// beta восстанавливается обобщенным МНК при найденной lambda.
type errorModel struct{}

func (m *errorModel) Fit(y []float64, X *mat.Dense, names []string, w *domain.SpatialWeights) (*domain.RegressionResult, error) {
	n, p := X.Dims()
	if n != w.N {
		return nil, apperrors.Newf(apperrors.CodeRegressionError,
			"Design has %d rows but weight structure covers %d observations", n, w.N)
	}
	if n <= p+2 {
		return nil, apperrors.Newf(apperrors.CodeRegressionError,
			"Insufficient observations: %d rows for %d parameters", n, p+2)
	}

	wy := w.Lag(y)

	// пространственные лаги всех колонок плана, включая константу
	wx := mat.NewDense(n, p, nil)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, X)
		wx.SetCol(j, w.Lag(col))
	}

	eigs, err := w.Eigenvalues()
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeRegressionError, "Weight matrix eigenvalues: %v", err)
	}
	lo, hi, ok := paramInterval(eigs)
	if !ok {
		return nil, apperrors.New(apperrors.CodeRegressionError,
			"Degenerate weight matrix spectrum, lambda interval undefined")
	}

	fn := float64(n)
	filtered := func(lambda float64) (beta, resid []float64, err error) {
		ys := make([]float64, n)
		for i := range ys {
			ys[i] = y[i] - lambda*wy[i]
		}
		xs := mat.NewDense(n, p, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < p; j++ {
				xs.Set(i, j, X.At(i, j)-lambda*wx.At(i, j))
			}
		}
		return olsFit(xs, ys)
	}

	concentrated := func(lambda float64) float64 {
		_, resid, err := filtered(lambda)
		if err != nil {
			return math.Inf(-1)
		}
		sse := sumSquares(resid)
		if sse <= 0 {
			return math.Inf(-1)
		}
		return -fn/2*(math.Log(2*math.Pi)+1) - fn/2*math.Log(sse/fn) + logJacobian(eigs, lambda)
	}

	lambda, converged := goldenMax(concentrated, lo, hi)
	if !converged || atBoundary(lambda, lo, hi) {
		return nil, apperrors.New(apperrors.CodeRegressionError,
			"Maximum likelihood estimation of lambda did not converge")
	}

	beta, resid, err := filtered(lambda)
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeRegressionError, "Singular filtered design matrix: %v", err)
	}
	sigma2 := sumSquares(resid) / fn

	se, err := errorBetaStdErrors(X, wx, lambda, sigma2)
	if err != nil {
		return nil, err
	}
	seLambda, err := errorLambdaStdError(n, lambda, sigma2, w)
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

	// систематическая часть X*beta для псевдо-R2
	var fittedVec mat.VecDense
	fittedVec.MulVec(X, mat.NewVecDense(p, beta))
	predicted := make([]float64, n)
	for i := range predicted {
		predicted[i] = fittedVec.AtVec(i)
	}
	r2 := stat.Correlation(y, predicted, nil)
	pseudoR2 := r2 * r2

	return &domain.RegressionResult{
		Coefficients: coefficients,
		Spatial: domain.Coefficient{
			Variable:    "lambda",
			Coefficient: lambda,
			StdError:    seLambda,
			PValue:      twoSidedP(lambda / seLambda),
		},
		LogLikelihood: concentrated(lambda),
		PseudoR2:      &pseudoR2,
		ModelType:     domain.ModelSEM,
	}, nil
}

// errorBetaStdErrors: Var(beta) = sigma^2 * (Xs' Xs)^{-1} на
// отфильтрованной матрице плана
func errorBetaStdErrors(X, wx *mat.Dense, lambda, sigma2 float64) ([]float64, error) {
	n, p := X.Dims()

	xs := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xs.Set(i, j, X.At(i, j)-lambda*wx.At(i, j))
		}
	}

	var xtx mat.Dense
	xtx.Mul(xs.T(), xs)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return nil, apperrors.Newf(apperrors.CodeRegressionError, "Filtered normal equations are singular: %v", err)
	}

	se := make([]float64, p)
	for i := range se {
		se[i] = math.Sqrt(sigma2 * inv.At(i, i))
		if !utils.IsFinite(se[i]) || se[i] == 0 {
			return nil, apperrors.New(apperrors.CodeRegressionError,
				"Asymptotic variance is not positive definite")
		}
	}
	return se, nil
}

// errorLambdaStdError инвертирует информационный блок (lambda, sigma^2)
func errorLambdaStdError(n int, lambda, sigma2 float64, w *domain.SpatialWeights) (float64, error) {
	wd := denseW(w.Dense())
	b := identityMinus(lambda, wd)

	var invB mat.Dense
	if err := invB.Inverse(b); err != nil {
		return 0, apperrors.Newf(apperrors.CodeRegressionError, "I - lambda*W is singular: %v", err)
	}

	var wb mat.Dense
	wb.Mul(wd, &invB)
	tr1 := mat.Trace(&wb)

	var wb2 mat.Dense
	wb2.Mul(&wb, &wb)
	tr2 := mat.Trace(&wb2)

	var wbtwb mat.Dense
	wbtwb.Mul(wb.T(), &wb)
	tr3 := mat.Trace(&wbtwb)

	iLL := tr2 + tr3
	iLS := tr1 / sigma2
	iSS := float64(n) / (2 * sigma2 * sigma2)

	det := iLL*iSS - iLS*iLS
	if det <= 0 {
		return 0, apperrors.New(apperrors.CodeRegressionError, "Information matrix is singular")
	}
	return math.Sqrt(iSS / det), nil
}
