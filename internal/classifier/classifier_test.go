package classifier

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcampos/diapredict-be/internal/features"
	"github.com/stretchr/testify/require"
)

func testModel() *Model {
	return &Model{
		Features:  features.Names(),
		Weights:   make([]float64, features.Count()),
		Intercept: 0,
	}
}

func TestPredict_ThresholdAndLabels(t *testing.T) {
	vector := make(features.Vector, features.Count())

	// Zero weights and intercept give exactly 0.5, which is the positive side
	// of the inclusive threshold.
	m := testModel()
	res, err := m.Predict(vector)
	require.NoError(t, err)
	require.Equal(t, OutcomePositive, res.Outcome)
	require.InDelta(t, 0.5, res.Probability, 1e-12)

	m.Intercept = -2
	res, err = m.Predict(vector)
	require.NoError(t, err)
	require.Equal(t, OutcomeNegative, res.Outcome)
	require.InDelta(t, 1/(1+math.Exp(2)), res.Probability, 1e-12)

	m.Intercept = 3
	res, err = m.Predict(vector)
	require.NoError(t, err)
	require.Equal(t, OutcomePositive, res.Outcome)
	require.Greater(t, res.Probability, 0.5)
}

func TestPredict_UsesWeightsInFieldOrder(t *testing.T) {
	m := testModel()
	m.Weights[1] = 0.01 // Glucose

	vector := make(features.Vector, features.Count())
	vector[1] = 120

	res, err := m.Predict(vector)
	require.NoError(t, err)
	require.InDelta(t, 1/(1+math.Exp(-1.2)), res.Probability, 1e-12)
}

func TestPredict_Deterministic(t *testing.T) {
	m := testModel()
	m.Intercept = -0.7
	for i := range m.Weights {
		m.Weights[i] = 0.001 * float64(i+1)
	}
	vector := features.Vector{2, 120, 70, 20, 80, 25, 0.5, 30}

	first, err := m.Predict(vector)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := m.Predict(vector)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestPredict_VectorLengthMismatch(t *testing.T) {
	m := testModel()
	_, err := m.Predict(features.Vector{1, 2, 3})
	require.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	m := testModel()
	m.Intercept = -1.5
	m.Weights[1] = 0.02
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_RejectsWrongFeatureOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	data := `{"features":["Glucose","Pregnancies"],"weights":[0,0],"intercept":0}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
