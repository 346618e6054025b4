package memory_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
	"github.com/spatial-analytics/internal/repository/memory"
)

func newDataset(rows int) *domain.Dataset {
	table := domain.Table{Columns: []string{"value"}}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, domain.Row{"value": float64(i)})
	}
	return domain.NewDataset(table)
}

func simpleWeights() *domain.SpatialWeights {
	return domain.NewSpatialWeights(1, -2, [][]int{{1}, {0}}, [][]float64{{1}, {1}})
}

func TestDatasetStore_Snapshot(t *testing.T) {
	store := memory.NewDatasetStore()

	t.Run("empty store reports dataset not loaded", func(t *testing.T) {
		_, err := store.Snapshot()
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeDatasetNotLoaded))
	})

	t.Run("snapshot after load has no weights yet", func(t *testing.T) {
		ds := newDataset(2)
		store.Replace(ds)

		snap, err := store.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, ds.ID, snap.Dataset.ID)
		assert.Nil(t, snap.Weights)
		assert.Nil(t, snap.Coords)
	})
}

func TestDatasetStore_SetWeights(t *testing.T) {
	t.Run("caches weights for the active dataset", func(t *testing.T) {
		store := memory.NewDatasetStore()
		ds := newDataset(2)
		store.Replace(ds)

		coords := []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
		w := simpleWeights()
		require.NoError(t, store.SetWeights(ds.ID, coords, w))

		snap, err := store.Snapshot()
		require.NoError(t, err)
		assert.Same(t, w, snap.Weights)
		assert.Equal(t, coords, snap.Coords)
	})

	t.Run("rejects weights built for a replaced dataset", func(t *testing.T) {
		store := memory.NewDatasetStore()
		old := newDataset(2)
		store.Replace(old)

		store.Replace(newDataset(2))

		err := store.SetWeights(old.ID, nil, simpleWeights())
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeWeightConstructionError))

		snap, err := store.Snapshot()
		require.NoError(t, err)
		assert.Nil(t, snap.Weights, "stale weights must not leak into the new dataset")
	})

	t.Run("replace invalidates cached weights", func(t *testing.T) {
		store := memory.NewDatasetStore()
		ds := newDataset(2)
		store.Replace(ds)
		require.NoError(t, store.SetWeights(ds.ID, nil, simpleWeights()))

		store.Replace(newDataset(3))

		snap, err := store.Snapshot()
		require.NoError(t, err)
		assert.Nil(t, snap.Weights)
	})
}

func TestDatasetStore_ConcurrentReaders(t *testing.T) {
	store := memory.NewDatasetStore()
	store.Replace(newDataset(2))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				store.Replace(newDataset(2))
				return
			}
			if _, err := store.Snapshot(); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
}
