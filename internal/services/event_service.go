package services

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rcampos/diapredict-be/internal/models"
	"github.com/rs/zerolog/log"
)

// EventBroadcaster pushes an event to live listeners (the websocket hub).
type EventBroadcaster interface {
	BroadcastEvent(payload []byte)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, subjectID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService persists audit events and fans them out to live listeners.
type EventService struct {
	db          *sql.DB
	broadcaster EventBroadcaster // optional
}

// NewEventService creates a new EventService. broadcaster may be nil.
func NewEventService(db *sql.DB, broadcaster EventBroadcaster) *EventService {
	return &EventService{db: db, broadcaster: broadcaster}
}

// CreateEvent logs a new event to the database and broadcasts it.
func (s *EventService) CreateEvent(eventType, level, message string, subjectID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		SubjectID: subjectID,
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, subject_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.SubjectID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to encode event for broadcast")
			return nil
		}
		s.broadcaster.BroadcastEvent(payload)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, subject_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.SubjectID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
