package service

import "github.com/google/uuid"

// Board event names carried over the realtime channel. Consumers treat any of
// them as a signal to refetch the affected project's board.
const (
	EventTaskCreated   = "task-created"
	EventTaskUpdated   = "task-updated"
	EventTaskDeleted   = "task-deleted"
	EventTaskMoved     = "task-moved"
	EventStatusCreated = "status-created"
	EventStatusUpdated = "status-updated"
	EventStatusDeleted = "status-deleted"
)

// EventPublisher fans a board event out to every other subscriber of a
// project channel. Services publish after the database write succeeds, so a
// failed mutation never produces an event.
type EventPublisher interface {
	Publish(projectID uuid.UUID, event string, data interface{})
}

// NopPublisher discards events. Used in tests and offline tooling.
type NopPublisher struct{}

// Publish discards the event
func (NopPublisher) Publish(projectID uuid.UUID, event string, data interface{}) {}
