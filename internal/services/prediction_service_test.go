package services

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcampos/diapredict-be/internal/classifier"
	"github.com/rcampos/diapredict-be/internal/features"
	"github.com/rcampos/diapredict-be/internal/recorder"
	"github.com/stretchr/testify/require"
)

// negativeModel always scores well below the decision threshold.
func negativeModel() *classifier.Model {
	return &classifier.Model{
		Features:  features.Names(),
		Weights:   make([]float64, features.Count()),
		Intercept: -2,
	}
}

func newPredictionService(t *testing.T, model *classifier.Model) (*PredictionService, string) {
	t.Helper()
	deps := newTestDB(t)
	logPath := filepath.Join(t.TempDir(), "predictions.csv")
	return NewPredictionService(model, recorder.New(logPath), deps.events), logPath
}

func validEntries() map[string]string {
	return map[string]string{
		"Pregnancies":      "2",
		"Glucose":          "120",
		"BloodPressure":    "70",
		"SkinThickness":    "20",
		"Insulin":          "80",
		"BMI":              "25.0",
		"DiabetesPedigree": "0.5",
		"Age":              "30",
	}
}

func TestPredict_ScoresAndRecords(t *testing.T) {
	svc, logPath := newPredictionService(t, negativeModel())

	prediction, err := svc.Predict(validEntries())
	require.NoError(t, err)
	require.Equal(t, classifier.OutcomeNegative, prediction.Outcome)
	require.Less(t, prediction.Probability, 0.5)
	require.Equal(t, 120.0, prediction.Values["Glucose"])

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, append(features.Names(), "Outcome"), rows[0])
	require.Equal(t, []string{"2", "120", "70", "20", "80", "25", "0.5", "30", "Non-Diabetic"}, rows[1])
}

func TestPredict_ValidationFailureWritesNothing(t *testing.T) {
	svc, logPath := newPredictionService(t, negativeModel())

	entries := validEntries()
	entries["BMI"] = "9000"

	_, err := svc.Predict(entries)
	var rangeErr *features.RangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t, "BMI", rangeErr.Field)

	_, statErr := os.Stat(logPath)
	require.True(t, os.IsNotExist(statErr), "no log row on validation failure")
}

func TestPredict_ModelUnavailable(t *testing.T) {
	svc, _ := newPredictionService(t, nil)

	_, err := svc.Predict(validEntries())
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func writeBatchInput(t *testing.T, header []string, rows ...[]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(header))
	for _, row := range rows {
		require.NoError(t, w.Write(row))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return path
}

func TestRunBatch_AppendsPredictionColumns(t *testing.T) {
	svc, _ := newPredictionService(t, negativeModel())

	header := append([]string{"PatientRef"}, features.Names()...)
	input := writeBatchInput(t, header,
		[]string{"p-001", "2", "120", "70", "20", "80", "25.0", "0.5", "30"},
		[]string{"p-002", "7", "180", "95", "40", "300", "38.2", "1.4", "55"},
	)
	output := filepath.Join(t.TempDir(), "out.csv")

	summary, err := svc.RunBatch(input, output)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Rows)
	require.Equal(t, output, summary.OutputPath)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, append(append([]string{}, header...), "Predicted_Outcome", "Probability"), rows[0])

	// Extra columns pass through untouched.
	require.Equal(t, "p-001", rows[1][0])
	require.Equal(t, "Non-Diabetic", rows[1][len(rows[1])-2])
	require.NotEmpty(t, rows[1][len(rows[1])-1])
}

func TestRunBatch_MissingColumnAbortsWithoutOutput(t *testing.T) {
	svc, _ := newPredictionService(t, negativeModel())

	header := []string{"Pregnancies", "Glucose", "BloodPressure", "SkinThickness", "Insulin", "BMI", "Age"}
	input := writeBatchInput(t, header, []string{"2", "120", "70", "20", "80", "25.0", "30"})
	output := filepath.Join(t.TempDir(), "out.csv")

	_, err := svc.RunBatch(input, output)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, []string{"DiabetesPedigree"}, schemaErr.Missing)

	_, statErr := os.Stat(output)
	require.True(t, os.IsNotExist(statErr), "no output file on schema failure")
}

func TestRunBatch_NonNumericCellAbortsWholeBatch(t *testing.T) {
	svc, _ := newPredictionService(t, negativeModel())

	input := writeBatchInput(t, features.Names(),
		[]string{"2", "120", "70", "20", "80", "25.0", "0.5", "30"},
		[]string{"2", "oops", "70", "20", "80", "25.0", "0.5", "30"},
	)
	output := filepath.Join(t.TempDir(), "out.csv")

	_, err := svc.RunBatch(input, output)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Glucose")

	_, statErr := os.Stat(output)
	require.True(t, os.IsNotExist(statErr))
}

func TestRunBatch_DoesNotRangeValidateRows(t *testing.T) {
	svc, _ := newPredictionService(t, negativeModel())

	// Glucose 500 is outside the form range but batch mode scores it anyway.
	input := writeBatchInput(t, features.Names(),
		[]string{"2", "500", "70", "20", "80", "25.0", "0.5", "30"},
	)
	output := filepath.Join(t.TempDir(), "out.csv")

	summary, err := svc.RunBatch(input, output)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Rows)
}

func TestRunBatch_MissingInputFile(t *testing.T) {
	svc, _ := newPredictionService(t, negativeModel())
	_, err := svc.RunBatch(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "out.csv"))
	require.Error(t, err)
}
