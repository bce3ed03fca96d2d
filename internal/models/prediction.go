package models

import (
	"github.com/rcampos/diapredict-be/internal/classifier"
	"github.com/rcampos/diapredict-be/internal/features"
)

// Prediction is one scored feature vector together with its outcome, as
// returned to the caller and appended to the prediction log.
type Prediction struct {
	Values      map[string]float64 `json:"values"`
	Outcome     string             `json:"outcome"`
	Probability float64            `json:"probability"`
}

// NewPrediction pairs a validated vector with its classifier result, keyed by
// field name for the API response.
func NewPrediction(vector features.Vector, result classifier.Result) Prediction {
	values := make(map[string]float64, len(vector))
	for i, name := range features.Names() {
		values[name] = vector[i]
	}
	return Prediction{
		Values:      values,
		Outcome:     result.Outcome,
		Probability: result.Probability,
	}
}

// BatchSummary reports a completed batch run.
type BatchSummary struct {
	Rows       int    `json:"rows"`
	OutputPath string `json:"outputPath"`
}
