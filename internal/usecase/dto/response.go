package dto

import "github.com/spatial-analytics/internal/domain"

// DataInfo - сводка по активной выборке с примером строк
type DataInfo struct {
	domain.DatasetSummary
	SampleData []domain.Row `json:"sample_data"`
}

// MoranResponse - результаты анализа Морана по ключам групп
type MoranResponse struct {
	Results map[string]domain.MoranResult `json:"results"`
}
