package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Profanor/scello-commerce/internal/models"
	ws "github.com/Profanor/scello-commerce/internal/websocket"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, entityID *string) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService records activity events and pushes them to the live feed.
type EventService struct {
	db  *sql.DB
	hub *ws.Hub // nil disables the live feed
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, hub *ws.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

// CreateEvent logs a new event to the database and broadcasts it to
// connected feed clients.
func (s *EventService) CreateEvent(eventType, level, message string, entityID *string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		EntityID:  entityID,
		CreatedAt: time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO events (id, type, level, message, entity_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec(event.ID, event.Type, event.Level, event.Message, event.EntityID); err != nil {
		return err
	}

	if s.hub != nil {
		payload, err := json.Marshal(ws.Message{Action: "activity_event", Payload: event})
		if err != nil {
			log.Error().Err(err).Str("event_type", eventType).Msg("Failed to encode event for broadcast")
			return nil
		}
		s.hub.Publish(payload)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, entity_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.EntityID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
