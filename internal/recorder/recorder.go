package recorder

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rcampos/diapredict-be/internal/features"
)

// Recorder appends predictions to a flat CSV log. The log is append-only:
// rows are never rewritten and reflect call order.
type Recorder struct {
	path string
}

// New creates a Recorder writing to the given path.
func New(path string) *Recorder {
	return &Recorder{path: path}
}

// Path returns the log file location.
func (r *Recorder) Path() string {
	return r.path
}

// Append writes one prediction row. The header row is written only when the
// file does not yet exist. Write failures surface to the caller unretried.
func (r *Recorder) Append(vector features.Vector, outcome string) error {
	if len(vector) != features.Count() {
		return fmt.Errorf("record has %d values, want %d", len(vector), features.Count())
	}

	_, statErr := os.Stat(r.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open prediction log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(append(features.Names(), "Outcome")); err != nil {
			return fmt.Errorf("write prediction log header: %w", err)
		}
	}

	row := make([]string, 0, len(vector)+1)
	for _, v := range vector {
		row = append(row, formatValue(v))
	}
	row = append(row, outcome)

	if err := w.Write(row); err != nil {
		return fmt.Errorf("write prediction row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush prediction log: %w", err)
	}
	return nil
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
