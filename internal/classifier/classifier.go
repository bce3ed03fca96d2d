package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rcampos/diapredict-be/internal/features"
)

// Labels reported by the model.
const (
	OutcomePositive = "Diabetic"
	OutcomeNegative = "Non-Diabetic"
)

// decisionThreshold is the probability at which the positive class is chosen.
const decisionThreshold = 0.5

// Model is a serialized logistic classifier over the declared feature order.
type Model struct {
	Features  []string  `json:"features"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Result is the outcome of scoring one feature vector.
type Result struct {
	Outcome     string  `json:"outcome"`
	Probability float64 `json:"probability"`
}

// Load reads a model artifact from disk and checks it against the declared
// field order. A failure here disables prediction but must not kill the
// process; the caller decides how to degrade.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if err := model.check(); err != nil {
		return nil, err
	}
	return &model, nil
}

// Save writes the model artifact to disk.
func (m *Model) Save(path string) error {
	if err := m.check(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (m *Model) check() error {
	declared := features.Names()
	if len(m.Features) != len(declared) {
		return fmt.Errorf("model has %d features, want %d", len(m.Features), len(declared))
	}
	for i, name := range declared {
		if m.Features[i] != name {
			return fmt.Errorf("model feature %d is %q, want %q", i, m.Features[i], name)
		}
	}
	if len(m.Weights) != len(declared) {
		return fmt.Errorf("model has %d weights, want %d", len(m.Weights), len(declared))
	}
	return nil
}

// Predict scores a validated feature vector. Deterministic: the same model and
// vector always produce the same result. Probability is the estimated
// likelihood of the positive class.
func (m *Model) Predict(vector features.Vector) (Result, error) {
	if len(vector) != len(m.Weights) {
		return Result{}, fmt.Errorf("vector has %d values, want %d", len(vector), len(m.Weights))
	}

	z := m.Intercept
	for i, w := range m.Weights {
		z += w * vector[i]
	}
	p := sigmoid(z)

	outcome := OutcomeNegative
	if p >= decisionThreshold {
		outcome = OutcomePositive
	}
	return Result{Outcome: outcome, Probability: p}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
