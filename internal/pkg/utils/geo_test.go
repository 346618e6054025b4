package utils_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spatial-analytics/internal/pkg/utils"
)

func TestEuclideanDistance(t *testing.T) {
	assert.Equal(t, 5.0, utils.EuclideanDistance(0, 0, 3, 4))
	assert.Zero(t, utils.EuclideanDistance(1, 1, 1, 1))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, utils.ValidateCoordinates(41.38, 2.17))
	assert.False(t, utils.ValidateCoordinates(91, 0))
	assert.False(t, utils.ValidateCoordinates(0, -181))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, utils.IsFinite(1.5))
	assert.False(t, utils.IsFinite(math.NaN()))
	assert.False(t, utils.IsFinite(math.Inf(1)))
}
