package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rcampos/diapredict-be/internal/classifier"
	"github.com/rcampos/diapredict-be/internal/features"
	"github.com/rcampos/diapredict-be/internal/models"
	"github.com/rcampos/diapredict-be/internal/recorder"
	"github.com/rs/zerolog/log"
)

// ErrModelUnavailable is returned when the classifier failed to load at
// startup. Prediction endpoints degrade; the rest of the service keeps
// running.
var ErrModelUnavailable = errors.New("prediction model is not available")

// SchemaError reports batch input missing one or more declared field columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// PredictionServiceProvider defines the interface for prediction services.
type PredictionServiceProvider interface {
	Predict(entries map[string]string) (models.Prediction, error)
	RunBatch(inputPath, outputPath string) (models.BatchSummary, error)
}

// PredictionService scores feature vectors against the loaded classifier and
// persists the results.
type PredictionService struct {
	model    *classifier.Model // nil when loading failed
	recorder *recorder.Recorder
	eventSvc EventServiceProvider
}

// NewPredictionService creates a new PredictionService. model may be nil when
// the artifact could not be loaded.
func NewPredictionService(model *classifier.Model, rec *recorder.Recorder, eventSvc EventServiceProvider) *PredictionService {
	return &PredictionService{model: model, recorder: rec, eventSvc: eventSvc}
}

// Predict validates raw form entries, scores the vector and appends the
// result to the prediction log. Validation errors surface to the caller
// naming the offending field; nothing is written on failure.
func (s *PredictionService) Predict(entries map[string]string) (models.Prediction, error) {
	if s.model == nil {
		return models.Prediction{}, ErrModelUnavailable
	}

	vector, err := features.Validate(entries)
	if err != nil {
		return models.Prediction{}, err
	}

	result, err := s.model.Predict(vector)
	if err != nil {
		return models.Prediction{}, err
	}

	if err := s.recorder.Append(vector, result.Outcome); err != nil {
		return models.Prediction{}, fmt.Errorf("save prediction: %w", err)
	}

	if err := s.eventSvc.CreateEvent("prediction.saved", "info",
		fmt.Sprintf("Prediction recorded: %s (p=%.4f)", result.Outcome, result.Probability), nil); err != nil {
		log.Warn().Err(err).Msg("Failed to record prediction event")
	}

	return models.NewPrediction(vector, result), nil
}

// RunBatch scores every row of a CSV file and writes the augmented table to
// outputPath. The input must contain all declared field columns or the whole
// batch aborts with a SchemaError; extra columns pass through untouched. Rows
// are scored without range validation (numbers outside the form ranges are
// accepted here; see DESIGN.md), but a cell that does not parse as a number
// aborts the batch. The output file is only created after every row scored.
func (s *PredictionService) RunBatch(inputPath, outputPath string) (models.BatchSummary, error) {
	if s.model == nil {
		return models.BatchSummary{}, ErrModelUnavailable
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("open batch input: %w", err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	rows, err := reader.ReadAll()
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("read batch input: %w", err)
	}
	if len(rows) == 0 {
		return models.BatchSummary{}, fmt.Errorf("batch input %s is empty", inputPath)
	}

	header := rows[0]
	columns, err := locateColumns(header)
	if err != nil {
		return models.BatchSummary{}, err
	}

	out := make([][]string, 0, len(rows))
	out = append(out, append(append([]string{}, header...), "Predicted_Outcome", "Probability"))

	for i, row := range rows[1:] {
		vector := make(features.Vector, len(columns))
		for j, col := range columns {
			value, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil {
				return models.BatchSummary{}, fmt.Errorf("row %d: %s is not numeric: %q", i+1, features.Names()[j], row[col])
			}
			vector[j] = value
		}

		result, err := s.model.Predict(vector)
		if err != nil {
			return models.BatchSummary{}, fmt.Errorf("row %d: %w", i+1, err)
		}

		augmented := append(append([]string{}, row...), result.Outcome, strconv.FormatFloat(result.Probability, 'g', -1, 64))
		out = append(out, augmented)
	}

	if err := writeCSV(outputPath, out); err != nil {
		return models.BatchSummary{}, err
	}

	summary := models.BatchSummary{Rows: len(out) - 1, OutputPath: outputPath}
	if err := s.eventSvc.CreateEvent("batch.completed", "info",
		fmt.Sprintf("Batch scored %d rows from %s", summary.Rows, inputPath), nil); err != nil {
		log.Warn().Err(err).Msg("Failed to record batch event")
	}
	return summary, nil
}

// locateColumns maps each declared field to its column index in the header,
// collecting every missing field before failing.
func locateColumns(header []string) ([]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	columns := make([]int, 0, features.Count())
	var missing []string
	for _, name := range features.Names() {
		col, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns = append(columns, col)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return columns, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create batch output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write batch output: %w", err)
	}
	return nil
}
