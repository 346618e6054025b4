package spatial

import (
	"github.com/spatial-analytics/internal/domain"
	apperrors "github.com/spatial-analytics/internal/pkg/errors"
)

// geometryColumn - имя колонки с точечной геометрией, если она есть
const geometryColumn = "geometry"

// ExtractCoordinates выводит координаты наблюдений из выборки:
// сначала точечная колонка geometry, иначе пара колонок долготы/широты.
// Порядок точек совпадает с порядком строк.
func ExtractCoordinates(ds *domain.Dataset, lonCol, latCol string) ([]domain.Point, error) {
	if ds.HasColumn(geometryColumn) {
		return extractFromGeometry(ds)
	}

	if !ds.HasColumn(lonCol) || !ds.HasColumn(latCol) {
		return nil, apperrors.ErrMissingCoordinateData
	}

	lon, err := ds.NumericColumn(lonCol)
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeMissingCoordinateData, "Longitude column unusable: %v", err)
	}
	lat, err := ds.NumericColumn(latCol)
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeMissingCoordinateData, "Latitude column unusable: %v", err)
	}

	coords := make([]domain.Point, ds.N())
	for i := range coords {
		coords[i] = domain.Point{X: lon[i], Y: lat[i]}
	}
	return coords, nil
}

func extractFromGeometry(ds *domain.Dataset) ([]domain.Point, error) {
	coords := make([]domain.Point, ds.N())
	for i, row := range ds.Rows {
		switch g := row[geometryColumn].(type) {
		case domain.Point:
			coords[i] = g
		case *domain.Point:
			if g == nil {
				return nil, apperrors.Newf(apperrors.CodeMissingCoordinateData, "Row %d has empty geometry", i+1)
			}
			coords[i] = *g
		default:
			return nil, apperrors.Newf(apperrors.CodeMissingCoordinateData, "Row %d geometry is not a point", i+1)
		}
	}
	return coords, nil
}
