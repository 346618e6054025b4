package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// olsFit решает задачу наименьших квадратов y ~ X через QR-разложение.
// Возвращает коэффициенты и остатки; ошибка при вырожденной матрице плана.
func olsFit(X *mat.Dense, y []float64) (beta, resid []float64, err error) {
	n, p := X.Dims()

	var betaVec mat.VecDense
	if err := betaVec.SolveVec(X, mat.NewVecDense(n, y)); err != nil {
		return nil, nil, err
	}

	var fitted mat.VecDense
	fitted.MulVec(X, &betaVec)

	beta = make([]float64, p)
	for i := range beta {
		beta[i] = betaVec.AtVec(i)
	}
	resid = make([]float64, n)
	for i := range resid {
		resid[i] = y[i] - fitted.AtVec(i)
	}
	return beta, resid, nil
}

// goldenMax максимизирует унимодальную функцию на [lo, hi] золотым сечением
func goldenMax(f func(float64) float64, lo, hi float64) (float64, bool) {
	const (
		tol     = 1e-9
		maxIter = 200
	)
	invPhi := (math.Sqrt(5) - 1) / 2

	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := f(c), f(d)

	for i := 0; i < maxIter && b-a > tol*(hi-lo); i++ {
		if fc > fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = f(c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = f(d)
		}
	}

	return (a + b) / 2, b-a <= tol*(hi-lo)
}

// logJacobian вычисляет log|I - rho*W| = sum ln(1 - rho*lambda_i)
// через заранее найденные собственные числа (прием Орда).
// Вне допустимого интервала параметра возвращает -Inf.
func logJacobian(eigs []float64, rho float64) float64 {
	var sum float64
	for _, e := range eigs {
		term := 1 - rho*e
		if term <= 0 {
			return math.Inf(-1)
		}
		sum += math.Log(term)
	}
	return sum
}

// paramInterval возвращает открытый интервал допустимых значений
// авторегрессионного параметра (1/lambda_min, 1/lambda_max) с отступом
// от границ
func paramInterval(eigs []float64) (lo, hi float64, ok bool) {
	min, max := eigs[0], eigs[0]
	for _, e := range eigs[1:] {
		if e < min {
			min = e
		}
		if e > max {
			max = e
		}
	}
	if min >= 0 || max <= 0 {
		return 0, 0, false
	}
	lo, hi = 1/min, 1/max
	margin := boundaryMargin * (hi - lo)
	return lo + margin, hi - margin, true
}

const boundaryMargin = 1e-5

// atBoundary сообщает, уперлась ли оценка в границу интервала поиска
func atBoundary(x, lo, hi float64) bool {
	width := hi - lo
	return x-lo < 2*boundaryMargin*width || hi-x < 2*boundaryMargin*width
}

// twoSidedP - двустороннее p-значение z-статистики по нормальному
// асимптотическому распределению ML-оценок
func twoSidedP(z float64) float64 {
	return 2 * distuv.UnitNormal.Survival(math.Abs(z))
}

// sumSquares возвращает сумму квадратов вектора
func sumSquares(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return sum
}

// denseW возвращает плотную несимметричную копию матрицы весов для
// матричных произведений
func denseW(sym mat.Symmetric) *mat.Dense {
	var d mat.Dense
	d.CloneFrom(sym)
	return &d
}

// identityMinus строит A = I - rho*W
func identityMinus(rho float64, w *mat.Dense) *mat.Dense {
	n, _ := w.Dims()
	var a mat.Dense
	a.Scale(-rho, w)
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+1)
	}
	return &a
}
