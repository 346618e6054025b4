package spatial

import (
	"math"

	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
	"github.com/spatial-analytics/internal/pkg/utils"
)

// BuildWeights строит дистанционную весовую структуру по координатам.
//
// Порог выбирается минимальным, при котором ни одно наблюдение не
// остается без соседа: максимум по наблюдениям расстояния до ближайшего
// соседа. Вес пары внутри порога равен d(i,j)^alpha (по умолчанию
// alpha = -2, обратно-квадратичное затухание); строки не нормируются.
func BuildWeights(coords []domain.Point, alpha float64) (*domain.SpatialWeights, error) {
	n := len(coords)
	if n < 2 {
		return nil, apperrors.Newf(apperrors.CodeWeightConstructionError,
			"Need at least 2 observations to build spatial weights, got %d", n)
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := utils.EuclideanDistance(coords[i].X, coords[i].Y, coords[j].X, coords[j].Y)
			if d == 0 {
				// нулевое расстояние при отрицательном alpha дает
				// бесконечный вес: дубликаты координат отклоняются явно
				return nil, apperrors.Newf(apperrors.CodeWeightConstructionError,
					"Duplicate coordinates at rows %d and %d", i+1, j+1)
			}
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	threshold := minConnectivityThreshold(dist)

	neighbors := make([][]int, n)
	weights := make([][]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if j == i || dist[i][j] > threshold {
				continue
			}
			neighbors[i] = append(neighbors[i], j)
			weights[i] = append(weights[i], math.Pow(dist[i][j], alpha))
		}
	}

	return domain.NewSpatialWeights(threshold, alpha, neighbors, weights), nil
}

// minConnectivityThreshold возвращает минимальный радиус, при котором
// граф соседства не содержит изолированных вершин
func minConnectivityThreshold(dist [][]float64) float64 {
	var threshold float64
	for i := range dist {
		nearest := math.Inf(1)
		for j := range dist[i] {
			if j != i && dist[i][j] < nearest {
				nearest = dist[i][j]
			}
		}
		if nearest > threshold {
			threshold = nearest
		}
	}
	return threshold
}
