package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Bahjat/phishguard/internal/classifier"
	"github.com/Bahjat/phishguard/internal/features"
	"github.com/Bahjat/phishguard/internal/platform/errs"
	"github.com/Bahjat/phishguard/internal/platform/requestid"
)

// Service extracts features for a URL and scores them with the classifier
// loaded at startup.
type Service struct {
	extractor  FeatureExtractor
	classifier Classifier
	recorder   Recorder
	logger     *slog.Logger
}

// NewService creates a Service. A nil recorder discards outcomes.
func NewService(extractor FeatureExtractor, clf Classifier, recorder Recorder, logger *slog.Logger) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{extractor: extractor, classifier: clf, recorder: recorder, logger: logger}
}

// Predict labels targetURL as benign or phishing.
func (s *Service) Predict(ctx context.Context, targetURL string) (classifier.Label, error) {
	logger := s.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))

	vec, err := s.Features(ctx, targetURL)
	if err != nil {
		s.recorder.ObservePredictionFailure()
		logger.Error("prediction failed", "error", err)
		return 0, err
	}

	label, err := s.classifier.Predict(vec.Slice())
	if err != nil {
		err = &errs.AppError{
			Kind:    errs.ModelFailure,
			Message: "The model could not score this URL.",
			Cause:   err,
		}
		s.recorder.ObservePredictionFailure()
		logger.Error("prediction failed", "error", err)
		return 0, err
	}

	s.recorder.ObservePrediction(label.String())
	logger.Info("prediction complete",
		"prediction", int(label),
		"label", label.String(),
		"suspicious_features", countSuspicious(vec),
	)
	return label, nil
}

// Features returns the vector for targetURL. The vector itself never fails;
// the only error is the request deadline passing while it was built.
func (s *Service) Features(ctx context.Context, targetURL string) (features.Vector, error) {
	vec := s.extractor.Extract(ctx, targetURL)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return vec, &errs.AppError{
			Kind:    errs.Timeout,
			Message: "Scoring timed out. The target URL may be slow to respond.",
			Cause:   ctx.Err(),
		}
	}
	return vec, nil
}

func countSuspicious(v features.Vector) int {
	var n int
	for _, x := range v {
		if x == features.Suspicious {
			n++
		}
	}
	return n
}
