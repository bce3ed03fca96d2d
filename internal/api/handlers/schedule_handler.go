package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rcampos/diapredict-be/internal/models"
	"github.com/rcampos/diapredict-be/internal/services"
)

// ScheduleHandler handles HTTP requests related to batch scoring schedules.
type ScheduleHandler struct {
	service services.ScheduleServiceProvider
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(service services.ScheduleServiceProvider) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// GetAll handles the request to list every schedule.
func (h *ScheduleHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.GetAllSchedules()
	if err != nil {
		http.Error(w, "Failed to retrieve schedules: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(schedules)
}

// Get handles the request to fetch one schedule.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	schedule, err := h.service.GetScheduleByID(scheduleID)
	if err != nil {
		http.Error(w, "Schedule not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(schedule)
}

// Create handles the request to create a new schedule.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var schedule models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	schedule.ID = uuid.New().String()

	newSchedule, err := h.service.CreateSchedule(schedule)
	if err != nil {
		http.Error(w, "Failed to create schedule: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newSchedule)
}

// Update handles the request to update an existing schedule.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	var schedule models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updatedSchedule, err := h.service.UpdateSchedule(scheduleID, schedule)
	if err != nil {
		http.Error(w, "Failed to update schedule: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updatedSchedule)
}

// Delete handles the request to delete a schedule.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	err := h.service.DeleteSchedule(scheduleID)
	if err != nil {
		http.Error(w, "Failed to delete schedule: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
