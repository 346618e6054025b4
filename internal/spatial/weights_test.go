package spatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
	"github.com/spatial-analytics/internal/spatial"
)

func TestBuildWeights(t *testing.T) {
	t.Run("every observation has a neighbor, no self-weights", func(t *testing.T) {
		coords := []domain.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2.5, Y: 0.5}, {X: 10, Y: 10}, {X: 11, Y: 10.5},
		}

		w, err := spatial.BuildWeights(coords, -2.0)
		require.NoError(t, err)
		require.Equal(t, 5, w.N)

		for i, nbrs := range w.Neighbors {
			assert.NotEmpty(t, nbrs, "observation %d must have at least one neighbor", i)
			for k, j := range nbrs {
				assert.NotEqual(t, i, j, "no self-neighbors")
				assert.Greater(t, w.Weights[i][k], 0.0)
			}
		}
	})

	t.Run("threshold is the largest nearest-neighbor distance", func(t *testing.T) {
		// ближайшие расстояния: 1, 1, 2, 5 - порог должен быть 5
		coords := []domain.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 3, Y: 0}, {X: 8, Y: 0},
		}

		w, err := spatial.BuildWeights(coords, -2.0)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, w.Threshold, 1e-12)
	})

	t.Run("weights follow inverse-square decay", func(t *testing.T) {
		coords := []domain.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}

		w, err := spatial.BuildWeights(coords, -2.0)
		require.NoError(t, err)

		// пара (1,2) на расстоянии 1: вес 1^-2 = 1
		// пара (0,1) на расстоянии 2: вес 2^-2 = 0.25
		dense := w.Dense()
		assert.InDelta(t, 0.25, dense.At(0, 1), 1e-12)
		assert.InDelta(t, 1.0, dense.At(1, 2), 1e-12)
	})

	t.Run("symmetric structure", func(t *testing.T) {
		coords := []domain.Point{
			{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 0.5, Y: 2},
		}

		w, err := spatial.BuildWeights(coords, -2.0)
		require.NoError(t, err)

		dense := w.Dense()
		for i := 0; i < w.N; i++ {
			for j := 0; j < w.N; j++ {
				assert.Equal(t, dense.At(i, j), dense.At(j, i))
			}
		}
	})

	t.Run("all weights finite", func(t *testing.T) {
		coords := []domain.Point{
			{X: 0, Y: 0}, {X: 1e-4, Y: 0}, {X: 5, Y: 5},
		}

		w, err := spatial.BuildWeights(coords, -2.0)
		require.NoError(t, err)
		for _, ws := range w.Weights {
			for _, v := range ws {
				assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
			}
		}
	})

	t.Run("fewer than two observations rejected", func(t *testing.T) {
		_, err := spatial.BuildWeights([]domain.Point{{X: 0, Y: 0}}, -2.0)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeWeightConstructionError))
	})

	t.Run("duplicate coordinates rejected", func(t *testing.T) {
		coords := []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 1}}

		_, err := spatial.BuildWeights(coords, -2.0)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeWeightConstructionError))
	})
}
