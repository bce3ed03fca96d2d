package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rcampos/diapredict-be/internal/monitoring"
)

// SystemHandler exposes host resource stats.
type SystemHandler struct {
	stats *monitoring.StatUpdater
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(stats *monitoring.StatUpdater) *SystemHandler {
	return &SystemHandler{stats: stats}
}

// GetStats returns the most recent host resource sample.
func (h *SystemHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats.Latest())
}
