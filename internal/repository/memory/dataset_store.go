package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/spatial-analytics/internal/domain"
	"github.com/spatial-analytics/internal/domain/repository"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
)

// DatasetStore - потокобезопасное in-memory хранилище единственной
// активной выборки. Загрузка берет эксклюзивную блокировку, анализ
// читает срез под разделяемой: чтения идут параллельно друг другу,
// но никогда параллельно с заменой выборки или весов.
type DatasetStore struct {
	mu      sync.RWMutex
	dataset *domain.Dataset
	coords  []domain.Point
	weights *domain.SpatialWeights
}

var _ repository.DatasetRepository = (*DatasetStore)(nil)

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{}
}

// Replace целиком заменяет выборку; кеш координат и весов прежней
// выборки при этом инвалидируется
func (s *DatasetStore) Replace(ds *domain.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = ds
	s.coords = nil
	s.weights = nil
}

// SetWeights кеширует весовую структуру, построенную для datasetID.
// Если выборка успела смениться, запись отклоняется и прежний кеш
// остается нетронутым.
func (s *DatasetStore) SetWeights(datasetID uuid.UUID, coords []domain.Point, w *domain.SpatialWeights) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset == nil {
		return apperrors.ErrDatasetNotLoaded
	}
	if s.dataset.ID != datasetID {
		return fmt.Errorf("dataset replaced during weight construction: %w",
			apperrors.New(apperrors.CodeWeightConstructionError, "Stale weight structure rejected"))
	}

	s.coords = coords
	s.weights = w
	return nil
}

// Snapshot возвращает согласованный срез для читателей
func (s *DatasetStore) Snapshot() (*repository.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, apperrors.ErrDatasetNotLoaded
	}
	return &repository.Snapshot{
		Dataset: s.dataset,
		Coords:  s.coords,
		Weights: s.weights,
	}, nil
}
