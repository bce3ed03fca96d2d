package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcampos/diapredict-be/internal/features"
	"github.com/stretchr/testify/require"
)

func TestAppend_HeaderOnceRowsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.csv")
	r := New(path)

	first := features.Vector{2, 120, 70, 20, 80, 25, 0.5, 30}
	second := features.Vector{5, 160, 90, 35, 200, 33.5, 1.1, 52}

	require.NoError(t, r.Append(first, "Non-Diabetic"))
	require.NoError(t, r.Append(second, "Diabetic"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "one header row and two data rows")

	require.Equal(t, append(features.Names(), "Outcome"), rows[0])
	require.Equal(t, []string{"2", "120", "70", "20", "80", "25", "0.5", "30", "Non-Diabetic"}, rows[1])
	require.Equal(t, []string{"5", "160", "90", "35", "200", "33.5", "1.1", "52", "Diabetic"}, rows[2])
}

func TestAppend_ExistingFileKeepsSingleHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.csv")
	r := New(path)

	vector := features.Vector{1, 100, 60, 15, 50, 22, 0.3, 25}
	require.NoError(t, r.Append(vector, "Non-Diabetic"))

	// A fresh Recorder on the same path must not repeat the header.
	require.NoError(t, New(path).Append(vector, "Non-Diabetic"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(data), "Outcome"))
}

func TestAppend_RejectsShortVector(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "predictions.csv"))
	require.Error(t, r.Append(features.Vector{1, 2}, "Diabetic"))
}

func TestAppend_SurfacesWriteFailure(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "missing-dir", "predictions.csv"))
	err := r.Append(features.Vector{2, 120, 70, 20, 80, 25, 0.5, 30}, "Non-Diabetic")
	require.Error(t, err)
}
