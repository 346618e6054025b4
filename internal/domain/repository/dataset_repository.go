package repository

import (
	"github.com/google/uuid"

	"github.com/spatial-analytics/internal/domain"
)

// Snapshot - согласованный срез состояния хранилища для анализа.
// Читатели работают со срезом и никогда не мутируют его.
type Snapshot struct {
	Dataset *domain.Dataset
	// Coords и Weights могут быть nil, пока веса не построены
	Coords  []domain.Point
	Weights *domain.SpatialWeights
}

// DatasetRepository - хранилище единственной активной выборки процесса
// и кешированной для нее весовой структуры
type DatasetRepository interface {
	// Replace целиком заменяет выборку и сбрасывает кеш весов
	Replace(ds *domain.Dataset)

	// SetWeights кеширует координаты и веса, построенные для выборки
	// datasetID; отклоняет запись, если выборка уже заменена
	SetWeights(datasetID uuid.UUID, coords []domain.Point, w *domain.SpatialWeights) error

	// Snapshot возвращает текущий срез; ошибка, если выборка не загружена
	Snapshot() (*Snapshot, error)
}
