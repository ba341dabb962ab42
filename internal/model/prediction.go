package model

// PredictRequest is the body accepted by the scoring endpoints. URL is a
// pointer so that a missing field can be told apart from an empty string.
type PredictRequest struct {
	URL *string `json:"url"`
}

// PredictionResponse is the result of scoring one URL.
type PredictionResponse struct {
	Prediction int `json:"prediction"`
}

// FeaturesResponse exposes the vector the classifier saw, for debugging.
type FeaturesResponse struct {
	URL      string    `json:"url"`
	Features []float64 `json:"features"`
	Names    []string  `json:"names"`
}

// HealthResponse is returned by the liveness probe.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}
