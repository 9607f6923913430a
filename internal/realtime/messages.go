package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Connection-level event names. Board mutation events (task-created and
// friends) are defined next to the services that emit them; these cover the
// channel lifecycle and live collaboration traffic.
const (
	EventPresenceSnapshot = "presence-snapshot"
	EventMemberAdded      = "member-added"
	EventMemberRemoved    = "member-removed"
	EventCursorUpdate     = "cursor-update"
)

// Envelope is the wire format for everything crossing a project channel,
// both over WebSocket and through Redis. SocketID identifies the originating
// connection so subscribers can skip their own events.
type Envelope struct {
	Event    string          `json:"event"`
	SocketID string          `json:"socketId,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Encode marshals an envelope with the given payload
func Encode(event, socketID string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, SocketID: socketID, Data: raw})
}

// PresenceMember is one user visible on a project channel
type PresenceMember struct {
	UserID uuid.UUID `json:"userId"`
}

// PresenceSnapshot lists everyone already subscribed, excluding the receiver
type PresenceSnapshot struct {
	Members []PresenceMember `json:"members"`
}

// CursorPosition is one pointer sample from a collaborator. Timestamp is
// sender wall-clock milliseconds; receivers use it to expire stale cursors.
type CursorPosition struct {
	UserID    uuid.UUID `json:"userId"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Timestamp int64     `json:"timestamp"`
}

// NowMillis returns the current wall clock in milliseconds
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
