package domain

import (
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
)

// ModelType - закрытое множество семейств пространственной регрессии
type ModelType string

const (
	// ModelSAR - пространственный лаг: y = rho*W*y + X*beta + e
	ModelSAR ModelType = "sar"
	// ModelSEM - пространственная ошибка: y = X*beta + u, u = lambda*W*u + e
	ModelSEM ModelType = "sem"
	// ModelSDM - модель Дарбина: SAR над расширенной матрицей [X, W*X]
	ModelSDM ModelType = "sdm"
)

// ParseModelType разбирает селектор семейства на границе вызова
func ParseModelType(s string) (ModelType, error) {
	switch ModelType(s) {
	case ModelSAR, ModelSEM, ModelSDM:
		return ModelType(s), nil
	default:
		return "", apperrors.Newf(apperrors.CodeUnsupportedModelType, "Unsupported model type %q", s)
	}
}

// MoranResult - глобальный индекс Морана с перестановочной значимостью
type MoranResult struct {
	MoranI    float64 `json:"moran_i"`
	PValue    float64 `json:"p_value"`
	ZScore    float64 `json:"z_score"`
	GroupSize int     `json:"group_size"`
}

// Coefficient - оценка коэффициента регрессии
type Coefficient struct {
	Variable    string  `json:"variable"`
	Coefficient float64 `json:"coefficient"`
	StdError    float64 `json:"std_error"`
	PValue      float64 `json:"p_value"`
}

// RegressionResult - итог ML-подгонки пространственной регрессии.
// Coefficients упорядочены: константа, независимые переменные и,
// для модели Дарбина, их пространственные лаги.
type RegressionResult struct {
	Coefficients []Coefficient `json:"coefficients"`
	// Spatial - авторегрессионный параметр (rho для sar/sdm, lambda для sem)
	Spatial       Coefficient `json:"spatial"`
	LogLikelihood float64     `json:"log_likelihood"`
	PseudoR2      *float64    `json:"r2,omitempty"`
	ModelType     ModelType   `json:"model_type"`
}

// DatasetSummary - сводка по загруженной выборке
type DatasetSummary struct {
	DatasetID string   `json:"dataset_id"`
	Columns   []string `json:"columns"`
	Rows      int      `json:"rows"`
	Years     []string `json:"years"`
}
