package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rcampos/diapredict-be/internal/features"
	"github.com/rcampos/diapredict-be/internal/services"
	"github.com/rs/zerolog/log"
)

// PredictionHandler handles HTTP requests for single and batch predictions.
type PredictionHandler struct {
	service services.PredictionServiceProvider
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(service services.PredictionServiceProvider) *PredictionHandler {
	return &PredictionHandler{service: service}
}

// PredictPayload carries the raw form entries, one per declared field.
type PredictPayload struct {
	Entries map[string]string `json:"entries"`
}

// BatchPayload names the input and output files for a batch run.
type BatchPayload struct {
	InputPath  string `json:"inputPath"`
	OutputPath string `json:"outputPath"`
}

// Predict validates the submitted form entries, scores them and returns the
// outcome. The prediction is appended to the prediction log before responding.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var payload PredictPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	prediction, err := h.service.Predict(payload.Entries)
	if err != nil {
		h.writePredictError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prediction)
}

// RunBatch scores a CSV of feature rows into an augmented output file.
func (h *PredictionHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var payload BatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.InputPath == "" || payload.OutputPath == "" {
		http.Error(w, "inputPath and outputPath are required", http.StatusBadRequest)
		return
	}

	summary, err := h.service.RunBatch(payload.InputPath, payload.OutputPath)
	if err != nil {
		var schemaErr *services.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			http.Error(w, schemaErr.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, services.ErrModelUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			log.Error().Err(err).Str("input", payload.InputPath).Msg("Batch prediction failed")
			http.Error(w, "Batch prediction failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// writePredictError maps prediction errors to user-facing responses. The
// validation messages name the offending field.
func (h *PredictionHandler) writePredictError(w http.ResponseWriter, err error) {
	var parseErr *features.ParseError
	var rangeErr *features.RangeError
	switch {
	case errors.As(err, &parseErr):
		http.Error(w, parseErr.Error(), http.StatusBadRequest)
	case errors.As(err, &rangeErr):
		http.Error(w, rangeErr.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrModelUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("Prediction failed")
		http.Error(w, "Prediction failed: "+err.Error(), http.StatusInternalServerError)
	}
}
