package utils

import "math"

// EuclideanDistance вычисляет плоское расстояние между двумя точками.
// Весовая матрица строится в тех же единицах, что и исходные координаты,
// без поправки на кривизну Земли.
func EuclideanDistance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// ValidateCoordinates проверяет валидность географических координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// IsFinite проверяет, что значение не NaN и не Inf
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
