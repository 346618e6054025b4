package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spatial-analytics/internal/config"
	"github.com/spatial-analytics/internal/domain"
	"github.com/spatial-analytics/internal/domain/repository"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
	"github.com/spatial-analytics/internal/pkg/validator"
	"github.com/spatial-analytics/internal/spatial"
	"github.com/spatial-analytics/internal/spatial/regression"
	"github.com/spatial-analytics/internal/usecase/dto"
)

// groupColumn - колонка, по которой анализ Морана разбивается на группы
const groupColumn = "year"

// sampleRows - размер примера строк в сводке по данным
const sampleRows = 10

// AnalysisUseCase обрабатывает бизнес-логику пространственного анализа:
// загрузку выборки, построение весов, тест Морана и регрессию
type AnalysisUseCase struct {
	store  repository.DatasetRepository
	cfg    config.AnalysisConfig
	logger *zap.Logger
}

// NewAnalysisUseCase создает новый экземпляр AnalysisUseCase
func NewAnalysisUseCase(
	store repository.DatasetRepository,
	cfg config.AnalysisConfig,
	logger *zap.Logger,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// LoadDataset целиком заменяет активную выборку разобранной таблицей.
// Прежняя выборка остается нетронутой при любой ошибке.
func (uc *AnalysisUseCase) LoadDataset(ctx context.Context, table domain.Table) (*domain.DatasetSummary, error) {
	if len(table.Rows) == 0 {
		return nil, apperrors.New(apperrors.CodeLoadError, "Table has no rows")
	}

	ds := domain.NewDataset(table)
	uc.store.Replace(ds)

	summary := uc.summarize(ds)
	uc.logger.Info("Dataset loaded",
		zap.String("dataset_id", summary.DatasetID),
		zap.Int("rows", summary.Rows),
		zap.Int("columns", len(summary.Columns)))

	return summary, nil
}

// BuildWeights строит дистанционную весовую структуру по координатам
// выборки и кеширует ее в хранилище. Неудачное построение оставляет
// прежнюю структуру нетронутой.
func (uc *AnalysisUseCase) BuildWeights(ctx context.Context, req dto.BuildWeightsRequest) error {
	snap, err := uc.store.Snapshot()
	if err != nil {
		return err
	}

	lonCol := req.LonColumn
	if lonCol == "" {
		lonCol = uc.cfg.LonColumn
	}
	latCol := req.LatColumn
	if latCol == "" {
		latCol = uc.cfg.LatColumn
	}

	// 1. Координаты наблюдений
	coords, err := spatial.ExtractCoordinates(snap.Dataset, lonCol, latCol)
	if err != nil {
		return fmt.Errorf("extract coordinates: %w", err)
	}

	// 2. Весовая структура
	w, err := spatial.BuildWeights(coords, uc.cfg.Alpha)
	if err != nil {
		return fmt.Errorf("build spatial weights: %w", err)
	}

	// 3. Кешируем для всех последующих запросов анализа
	if err := uc.store.SetWeights(snap.Dataset.ID, coords, w); err != nil {
		return fmt.Errorf("cache spatial weights: %w", err)
	}

	uc.logger.Info("Spatial weights built",
		zap.String("dataset_id", snap.Dataset.ID.String()),
		zap.Int("observations", w.N),
		zap.Float64("threshold", w.Threshold),
		zap.Float64("alpha", w.Alpha))

	return nil
}

// MoranTest вычисляет индекс Морана переменной по группам.
// Группа, не совпадающая со всей выборкой, получает весовую структуру,
// перестроенную по собственным координатам: статистика против общей
// матрицы при другом размере подмножества не определена.
func (uc *AnalysisUseCase) MoranTest(ctx context.Context, req dto.MoranRequest) (*dto.MoranResponse, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperrors.Newf(apperrors.CodeInvalidRequest, "Invalid moran request: %v", err)
	}

	snap, err := uc.store.Snapshot()
	if err != nil {
		return nil, err
	}
	if snap.Weights == nil {
		return nil, apperrors.ErrWeightsNotBuilt
	}
	ds := snap.Dataset

	groups := req.Years
	if len(groups) == 0 {
		groups = ds.GroupKeys(groupColumn)
	}
	if len(groups) == 0 {
		groups = []string{domain.GroupKeyAll}
	}

	opts := spatial.MoranOptions{
		Permutations: uc.cfg.Permutations,
		Workers:      uc.cfg.PermWorkers,
	}

	results := make(map[string]domain.MoranResult, len(groups))
	for _, key := range groups {
		if key != domain.GroupKeyAll && !ds.HasColumn(groupColumn) {
			return nil, apperrors.Newf(apperrors.CodeAnalysisError,
				"Dataset has no %q column to resolve group %q", groupColumn, key)
		}
		indices := ds.GroupIndices(groupColumn, key)
		if len(indices) == 0 {
			return nil, apperrors.Newf(apperrors.CodeAnalysisError, "Group %q has no rows", key)
		}

		y, err := ds.NumericColumnAt(req.Variable, indices)
		if err != nil {
			return nil, apperrors.Newf(apperrors.CodeAnalysisError, "Variable unusable: %v", err)
		}

		w, err := uc.groupWeights(snap, indices)
		if err != nil {
			return nil, err
		}

		res, err := spatial.MoranTest(y, w, opts)
		if err != nil {
			return nil, fmt.Errorf("moran test for group %q: %w", key, err)
		}
		results[key] = *res

		uc.logger.Debug("Moran test computed",
			zap.String("variable", req.Variable),
			zap.String("group", key),
			zap.Float64("moran_i", res.MoranI),
			zap.Float64("p_value", res.PValue))
	}

	return &dto.MoranResponse{Results: results}, nil
}

// groupWeights возвращает кешированную структуру для полной выборки и
// перестраивает ее по координатам подмножества для настоящих групп
func (uc *AnalysisUseCase) groupWeights(snap *repository.Snapshot, indices []int) (*domain.SpatialWeights, error) {
	if len(indices) == snap.Dataset.N() {
		return snap.Weights, nil
	}

	coords := make([]domain.Point, len(indices))
	for i, idx := range indices {
		coords[i] = snap.Coords[idx]
	}

	w, err := spatial.BuildWeights(coords, uc.cfg.Alpha)
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeAnalysisError, "Group weight structure: %v", err)
	}
	return w, nil
}

// FitRegression подгоняет пространственную регрессию выбранного
// семейства методом максимального правдоподобия
func (uc *AnalysisUseCase) FitRegression(ctx context.Context, req dto.RegressionRequest) (*domain.RegressionResult, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperrors.Newf(apperrors.CodeInvalidRequest, "Invalid regression request: %v", err)
	}

	selector := req.ModelType
	if selector == "" {
		selector = string(domain.ModelSDM)
	}
	modelType, err := domain.ParseModelType(selector)
	if err != nil {
		return nil, err
	}

	snap, err := uc.store.Snapshot()
	if err != nil {
		return nil, err
	}
	if snap.Weights == nil {
		return nil, apperrors.ErrWeightsNotBuilt
	}

	y, X, names, err := regression.Design(snap.Dataset, req.DependentVar, req.IndependentVars)
	if err != nil {
		return nil, err
	}

	model, err := regression.New(modelType)
	if err != nil {
		return nil, err
	}

	result, err := model.Fit(y, X, names, snap.Weights)
	if err != nil {
		return nil, fmt.Errorf("fit %s model: %w", modelType, err)
	}

	uc.logger.Info("Regression fitted",
		zap.String("model_type", string(modelType)),
		zap.String("dependent", req.DependentVar),
		zap.Int("coefficients", len(result.Coefficients)),
		zap.Float64("log_likelihood", result.LogLikelihood))

	return result, nil
}

// DataInfo возвращает сводку по активной выборке с первыми строками
func (uc *AnalysisUseCase) DataInfo(ctx context.Context) (*dto.DataInfo, error) {
	snap, err := uc.store.Snapshot()
	if err != nil {
		return nil, err
	}

	return &dto.DataInfo{
		DatasetSummary: *uc.summarize(snap.Dataset),
		SampleData:     snap.Dataset.Head(sampleRows),
	}, nil
}

func (uc *AnalysisUseCase) summarize(ds *domain.Dataset) *domain.DatasetSummary {
	years := ds.GroupKeys(groupColumn)
	if years == nil {
		years = []string{}
	}
	return &domain.DatasetSummary{
		DatasetID: ds.ID.String(),
		Columns:   ds.Columns,
		Rows:      ds.N(),
		Years:     years,
	}
}
