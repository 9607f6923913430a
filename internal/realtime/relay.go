package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-sync-api/internal/database"
	"project-sync-api/internal/metrics"
)

const publishTimeout = 2 * time.Second

// Relay fans board events out to project channels. With Redis configured the
// event crosses instances through pub/sub and each subscribed connection
// picks it up; without Redis it goes straight to the local hub. Either way a
// channel with no subscribers drops the event.
type Relay struct {
	hub     *Hub
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRelay creates a relay bound to the local hub
func NewRelay(hub *Hub, m *metrics.Metrics, logger *zap.Logger) *Relay {
	return &Relay{hub: hub, metrics: m, logger: logger}
}

// Publish broadcasts a board event to every subscriber of the project
// channel. Implements the event publisher the services mutate through.
func (r *Relay) Publish(projectID uuid.UUID, event string, data interface{}) {
	r.PublishFrom(projectID, event, data, "")
}

// PublishFrom broadcasts a board event while excluding the originating
// connection, the way client-triggered events echo to everyone else
func (r *Relay) PublishFrom(projectID uuid.UUID, event string, data interface{}, socketID string) {
	payload, err := Encode(event, socketID, data)
	if err != nil {
		r.logger.Error("failed to encode event",
			zap.String("event", event),
			zap.Error(err))
		return
	}

	if r.metrics != nil {
		r.metrics.EventsRelayedTotal.WithLabelValues(event).Inc()
	}

	if database.GetRedis() != nil {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := database.PublishProjectEvent(ctx, projectID.String(), payload); err != nil {
			r.logger.Error("failed to publish event to redis",
				zap.String("project_id", projectID.String()),
				zap.String("event", event),
				zap.Error(err))
		}
		return
	}

	r.hub.BroadcastToProject(projectID, payload, socketID)
}
