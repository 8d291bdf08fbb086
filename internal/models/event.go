package models

import "time"

// Event represents a loggable action or alert in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "user.signup", "product.create", "catalog.lowstock"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	EntityID  *string   `json:"entityId,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}
