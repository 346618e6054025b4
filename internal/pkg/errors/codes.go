package errors

const (
	CodeMissingCoordinateData   = "MISSING_COORDINATE_DATA"
	CodeWeightConstructionError = "WEIGHT_CONSTRUCTION_ERROR"
	CodeAnalysisError           = "ANALYSIS_ERROR"
	CodeUnsupportedModelType    = "UNSUPPORTED_MODEL_TYPE"
	CodeRegressionError         = "REGRESSION_ERROR"
	CodeDatasetNotLoaded        = "DATASET_NOT_LOADED"
	CodeInvalidRequest          = "INVALID_REQUEST"
	CodeLoadError               = "LOAD_ERROR"
)

var (
	ErrDatasetNotLoaded = New(
		CodeDatasetNotLoaded,
		"No dataset loaded",
	)

	ErrWeightsNotBuilt = New(
		CodeAnalysisError,
		"Spatial weights have not been built",
	)

	ErrMissingCoordinateData = New(
		CodeMissingCoordinateData,
		"Dataset has neither a point geometry column nor longitude/latitude columns",
	)
)
