package sync

import (
	"encoding/json"

	"go.uber.org/zap"

	"project-sync-api/internal/realtime"
	"project-sync-api/internal/service"
)

// Invalidator triggers a background board refetch. The mutation client
// implements it; tests substitute a recorder.
type Invalidator interface {
	Invalidate()
}

// Dispatcher routes incoming channel frames to the presence tracker, the
// cursor tracker, and the board cache. Board mutation events carry
// identifiers only; the reaction to every one of them is the same
// invalidate-and-refetch, which is what makes replicas converge.
type Dispatcher struct {
	invalidator Invalidator
	presence    *PresenceTracker
	cursors     *CursorTracker
	logger      *zap.Logger
}

// NewDispatcher wires the three trackers together
func NewDispatcher(invalidator Invalidator, presence *PresenceTracker, cursors *CursorTracker, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		invalidator: invalidator,
		presence:    presence,
		cursors:     cursors,
		logger:      logger,
	}
}

// Dispatch handles one frame from the project channel
func (d *Dispatcher) Dispatch(env realtime.Envelope) {
	switch env.Event {
	case service.EventTaskCreated, service.EventTaskUpdated, service.EventTaskDeleted,
		service.EventTaskMoved, service.EventStatusCreated, service.EventStatusUpdated,
		service.EventStatusDeleted:
		d.invalidator.Invalidate()

	case realtime.EventPresenceSnapshot:
		var snapshot realtime.PresenceSnapshot
		if err := json.Unmarshal(env.Data, &snapshot); err != nil {
			d.logger.Warn("bad presence snapshot", zap.Error(err))
			return
		}
		d.presence.ApplySnapshot(snapshot)

	case realtime.EventMemberAdded:
		var member realtime.PresenceMember
		if err := json.Unmarshal(env.Data, &member); err != nil {
			d.logger.Warn("bad member-added frame", zap.Error(err))
			return
		}
		d.presence.Add(member.UserID)

	case realtime.EventMemberRemoved:
		var member realtime.PresenceMember
		if err := json.Unmarshal(env.Data, &member); err != nil {
			d.logger.Warn("bad member-removed frame", zap.Error(err))
			return
		}
		if d.presence.Remove(member.UserID) {
			d.cursors.Evict(member.UserID)
		}

	case realtime.EventCursorUpdate:
		var pos realtime.CursorPosition
		if err := json.Unmarshal(env.Data, &pos); err != nil {
			d.logger.Warn("bad cursor frame", zap.Error(err))
			return
		}
		// only track cursors of visible collaborators
		if d.presence.Contains(pos.UserID) {
			d.cursors.Observe(pos)
		}

	default:
		d.logger.Debug("ignoring unknown event", zap.String("event", env.Event))
	}
}
