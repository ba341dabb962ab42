package analyzer

import (
	"context"

	"github.com/Bahjat/phishguard/internal/classifier"
	"github.com/Bahjat/phishguard/internal/features"
)

// FeatureExtractor turns a URL into the vector the classifier was trained on.
// It never fails; unreachable data is encoded as fallback values.
type FeatureExtractor interface {
	Extract(ctx context.Context, rawURL string) features.Vector
}

// Classifier labels one feature row.
type Classifier interface {
	Predict(row []float64) (classifier.Label, error)
}

// Recorder receives the outcome of every scoring request.
type Recorder interface {
	ObservePrediction(label string)
	ObservePredictionFailure()
}

type noopRecorder struct{}

func (noopRecorder) ObservePrediction(string)  {}
func (noopRecorder) ObservePredictionFailure() {}
