package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Bahjat/phishguard/internal/features"
	"github.com/Bahjat/phishguard/internal/model"
	"github.com/Bahjat/phishguard/internal/platform/errs"
)

const defaultRequestTimeout = 30 * time.Second

var errURLRequired = errors.New("the \"url\" field is required")

// Transport handles HTTP requests for URL scoring.
type Transport struct {
	service *Service
	logger  *slog.Logger
	timeout time.Duration
}

// NewTransport creates an HTTP transport backed by the given service. Each
// request is bounded by timeout; zero means 30s.
func NewTransport(service *Service, logger *slog.Logger, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Transport{service: service, logger: logger, timeout: timeout}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict_from_url", t.handlePredict)
	mux.HandleFunc("POST /features", t.handleFeatures)
	mux.HandleFunc("GET /healthz", t.handleHealth)
}

type predictRequest model.PredictRequest

// validate only checks presence. An empty string is a valid input and is
// scored like any other unreachable URL.
func (r predictRequest) validate() error {
	if r.URL == nil {
		return errURLRequired
	}
	return nil
}

func (t *Transport) decode(w http.ResponseWriter, r *http.Request) (string, bool) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return "", false
	}

	if err := req.validate(); err != nil {
		t.renderError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return *req.URL, true
}

func (t *Transport) handlePredict(w http.ResponseWriter, r *http.Request) {
	targetURL, ok := t.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), t.timeout)
	defer cancel()

	label, err := t.service.Predict(ctx, targetURL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, model.PredictionResponse{Prediction: int(label)})
}

func (t *Transport) handleFeatures(w http.ResponseWriter, r *http.Request) {
	targetURL, ok := t.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), t.timeout)
	defer cancel()

	vec, err := t.service.Features(ctx, targetURL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, model.FeaturesResponse{
		URL:      targetURL,
		Features: vec.Slice(),
		Names:    features.Names[:],
	})
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, model.HealthResponse{Status: "ok"})
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Kind {
		case errs.InvalidInput:
			status = http.StatusBadRequest
		case errs.Timeout:
			status = http.StatusGatewayTimeout
		case errs.ModelFailure, errs.Unknown:
			// 500 Internal Server Error
		}
		t.renderError(w, status, appErr.Message)
		return
	}

	t.renderError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
