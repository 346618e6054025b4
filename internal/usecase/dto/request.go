package dto

// BuildWeightsRequest - запрос на построение весовой структуры.
// Пустые имена колонок заменяются значениями из конфигурации.
type BuildWeightsRequest struct {
	LonColumn string `json:"lon_col,omitempty"`
	LatColumn string `json:"lat_col,omitempty"`
}

// MoranRequest - запрос на анализ индекса Морана
type MoranRequest struct {
	Variable string `json:"variable" validate:"required"`
	// Years - явный набор ключей групп; пустой набор означает все
	// различные значения колонки year (или единственную группу "all")
	Years []string `json:"years,omitempty" validate:"omitempty,dive,required"`
}

// RegressionRequest - запрос на пространственную регрессию
type RegressionRequest struct {
	DependentVar    string   `json:"dependent_var" validate:"required"`
	IndependentVars []string `json:"independent_vars" validate:"required,min=1,dive,required"`
	// ModelType - селектор семейства; пустой селектор означает sdm
	ModelType string `json:"model_type,omitempty"`
}
