package domain

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// SpatialWeights - разреженная матрица пространственных весов N x N.
// Наблюдения i и j соседи, если расстояние между ними не превышает Threshold;
// вес пары равен d(i,j)^Alpha. Диагональ пуста, матрица симметрична,
// строки не нормируются (сырые затухающие веса, binary=false).
type SpatialWeights struct {
	N         int
	Threshold float64
	Alpha     float64

	// Neighbors[i] - индексы соседей i, Weights[i] - их веса в том же порядке
	Neighbors [][]int
	Weights   [][]float64

	s0 float64

	eigOnce sync.Once
	eigVals []float64
	eigErr  error
}

// NewSpatialWeights собирает структуру из списков соседей
func NewSpatialWeights(threshold, alpha float64, neighbors [][]int, weights [][]float64) *SpatialWeights {
	var s0 float64
	for _, ws := range weights {
		for _, w := range ws {
			s0 += w
		}
	}
	return &SpatialWeights{
		N:         len(neighbors),
		Threshold: threshold,
		Alpha:     alpha,
		Neighbors: neighbors,
		Weights:   weights,
		s0:        s0,
	}
}

// S0 - сумма всех весов (нормировочный множитель Морана)
func (w *SpatialWeights) S0() float64 {
	return w.s0
}

// Lag вычисляет пространственный лаг W*x
func (w *SpatialWeights) Lag(x []float64) []float64 {
	lag := make([]float64, w.N)
	for i, nbrs := range w.Neighbors {
		var sum float64
		for k, j := range nbrs {
			sum += w.Weights[i][k] * x[j]
		}
		lag[i] = sum
	}
	return lag
}

// Dense возвращает плотное симметричное представление матрицы весов
func (w *SpatialWeights) Dense() *mat.SymDense {
	dense := mat.NewSymDense(w.N, nil)
	for i, nbrs := range w.Neighbors {
		for k, j := range nbrs {
			if j > i {
				dense.SetSym(i, j, w.Weights[i][k])
			}
		}
	}
	return dense
}

// Eigenvalues возвращает собственные числа матрицы весов.
// Вычисляются один раз на структуру: якобиан log|I - rho*W| в ML-оценке
// переиспользует их при каждом вызове подгонки.
func (w *SpatialWeights) Eigenvalues() ([]float64, error) {
	w.eigOnce.Do(func() {
		var es mat.EigenSym
		if ok := es.Factorize(w.Dense(), false); !ok {
			w.eigErr = fmt.Errorf("eigendecomposition of weight matrix failed")
			return
		}
		w.eigVals = es.Values(nil)
	})
	return w.eigVals, w.eigErr
}
