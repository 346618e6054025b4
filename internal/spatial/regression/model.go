// Package regression реализует максимально-правдоподобную оценку
// пространственных регрессий трех семейств: пространственный лаг (sar),
// пространственная ошибка (sem) и модель Дарбина (sdm). Каждое семейство -
// отдельная стратегия за единым контрактом Fit.
package regression

import (
	"gonum.org/v1/gonum/mat"

	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
)

// Model - стратегия подгонки одного семейства моделей
type Model interface {
	Fit(y []float64, X *mat.Dense, names []string, w *domain.SpatialWeights) (*domain.RegressionResult, error)
}

// New возвращает стратегию для семейства модели.
// Неизвестный селектор отклоняется на границе вызова.
func New(modelType domain.ModelType) (Model, error) {
	switch modelType {
	case domain.ModelSAR:
		return &lagModel{family: domain.ModelSAR}, nil
	case domain.ModelSEM:
		return &errorModel{}, nil
	case domain.ModelSDM:
		return &durbinModel{}, nil
	default:
		return nil, apperrors.Newf(apperrors.CodeUnsupportedModelType, "Unsupported model type %q", modelType)
	}
}

// Design строит матрицу плана: колонка константы плюс независимые
// переменные в заданном порядке. Имена выровнены с колонками.
func Design(ds *domain.Dataset, dependent string, independents []string) (y []float64, X *mat.Dense, names []string, err error) {
	y, err = ds.NumericColumn(dependent)
	if err != nil {
		return nil, nil, nil, apperrors.Newf(apperrors.CodeRegressionError, "Dependent variable: %v", err)
	}

	n := ds.N()
	X = mat.NewDense(n, 1+len(independents), nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
	}

	names = make([]string, 0, 1+len(independents))
	names = append(names, "const")
	for j, name := range independents {
		col, err := ds.NumericColumn(name)
		if err != nil {
			return nil, nil, nil, apperrors.Newf(apperrors.CodeRegressionError, "Independent variable: %v", err)
		}
		X.SetCol(j+1, col)
		names = append(names, name)
	}

	return y, X, names, nil
}

// durbinModel - модель Дарбина: SAR над расширенной матрицей [X, W*X].
// Лаги считаются для всех колонок кроме константы, итоговый план имеет
// ровно 1 + 2k колонок.
type durbinModel struct{}

func (m *durbinModel) Fit(y []float64, X *mat.Dense, names []string, w *domain.SpatialWeights) (*domain.RegressionResult, error) {
	n, p := X.Dims()
	k := p - 1

	augmented := mat.NewDense(n, 1+2*k, nil)
	augmented.Slice(0, n, 0, p).(*mat.Dense).Copy(X)

	col := make([]float64, n)
	for j := 1; j < p; j++ {
		mat.Col(col, j, X)
		augmented.SetCol(p+j-1, w.Lag(col))
	}

	augNames := make([]string, 0, 1+2*k)
	augNames = append(augNames, names...)
	for _, name := range names[1:] {
		augNames = append(augNames, "W_"+name)
	}

	lag := &lagModel{family: domain.ModelSDM}
	return lag.Fit(y, augmented, augNames, w)
}
