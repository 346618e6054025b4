package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatial-analytics/internal/domain"
)

func TestNewDataset(t *testing.T) {
	t.Run("assigns sequential ids starting from 1", func(t *testing.T) {
		ds := domain.NewDataset(domain.Table{
			Columns: []string{"value"},
			Rows: []domain.Row{
				{"value": 10.0},
				{"value": 20.0},
				{"value": 30.0},
			},
		})

		assert.Equal(t, 3, ds.N())
		assert.True(t, ds.HasColumn("id"))
		for i, row := range ds.Rows {
			assert.Equal(t, i+1, row["id"])
		}
	})

	t.Run("derives categorical city codes from name column", func(t *testing.T) {
		ds := domain.NewDataset(domain.Table{
			Columns: []string{"name", "value"},
			Rows: []domain.Row{
				{"name": "Valencia", "value": 1.0},
				{"name": "Barcelona", "value": 2.0},
				{"name": "Valencia", "value": 3.0},
			},
		})

		require.True(t, ds.HasColumn("city"))
		// категории сортируются: Barcelona=0, Valencia=1
		assert.Equal(t, 1, ds.Rows[0]["city"])
		assert.Equal(t, 0, ds.Rows[1]["city"])
		assert.Equal(t, 1, ds.Rows[2]["city"])
	})

	t.Run("does not mutate input rows", func(t *testing.T) {
		input := []domain.Row{{"value": 1.0}}
		domain.NewDataset(domain.Table{Columns: []string{"value"}, Rows: input})

		_, hasID := input[0]["id"]
		assert.False(t, hasID)
	})
}

func TestDataset_NumericColumn(t *testing.T) {
	ds := domain.NewDataset(domain.Table{
		Columns: []string{"value", "label"},
		Rows: []domain.Row{
			{"value": 1.5, "label": "a"},
			{"value": 2, "label": "b"},
		},
	})

	t.Run("coerces mixed numeric types", func(t *testing.T) {
		values, err := ds.NumericColumn("value")
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, 2}, values)
	})

	t.Run("fails on missing column", func(t *testing.T) {
		_, err := ds.NumericColumn("missing")
		assert.Error(t, err)
	})

	t.Run("fails on non-numeric column", func(t *testing.T) {
		_, err := ds.NumericColumn("label")
		assert.Error(t, err)
	})

	t.Run("extracts subset by indices", func(t *testing.T) {
		values, err := ds.NumericColumnAt("value", []int{1})
		require.NoError(t, err)
		assert.Equal(t, []float64{2}, values)
	})
}

func TestDataset_Groups(t *testing.T) {
	ds := domain.NewDataset(domain.Table{
		Columns: []string{"year", "value"},
		Rows: []domain.Row{
			{"year": 2021, "value": 1.0},
			{"year": 2020, "value": 2.0},
			{"year": 2021, "value": 3.0},
		},
	})

	t.Run("distinct keys sorted numerically", func(t *testing.T) {
		assert.Equal(t, []string{"2020", "2021"}, ds.GroupKeys("year"))
	})

	t.Run("indices of a group", func(t *testing.T) {
		assert.Equal(t, []int{0, 2}, ds.GroupIndices("year", "2021"))
	})

	t.Run("sentinel selects all rows", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2}, ds.GroupIndices("year", domain.GroupKeyAll))
	})

	t.Run("missing group column yields no keys", func(t *testing.T) {
		assert.Nil(t, ds.GroupKeys("quarter"))
	})
}

func TestFormatGroupKey(t *testing.T) {
	assert.Equal(t, "2020", domain.FormatGroupKey(2020))
	assert.Equal(t, "2020", domain.FormatGroupKey(2020.0))
	assert.Equal(t, "2.5", domain.FormatGroupKey(2.5))
	assert.Equal(t, "north", domain.FormatGroupKey("north"))
}
