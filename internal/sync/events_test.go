package sync

import (
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-sync-api/internal/realtime"
	"project-sync-api/internal/service"
)

type countingInvalidator struct {
	calls int64
}

func (c *countingInvalidator) Invalidate() {
	atomic.AddInt64(&c.calls, 1)
}

func (c *countingInvalidator) count() int64 {
	return atomic.LoadInt64(&c.calls)
}

func envelopeFor(t *testing.T, event string, data interface{}) realtime.Envelope {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	return realtime.Envelope{Event: event, Data: raw}
}

func newDispatcherForTest(selfID uuid.UUID) (*Dispatcher, *countingInvalidator, *PresenceTracker, *CursorTracker) {
	inv := &countingInvalidator{}
	presence := NewPresenceTracker(selfID)
	cursors := NewCursorTracker(time.Minute)
	return NewDispatcher(inv, presence, cursors, zap.NewNop()), inv, presence, cursors
}

func TestDispatch_BoardEventsInvalidate(t *testing.T) {
	d, inv, _, _ := newDispatcherForTest(uuid.New())

	events := []string{
		service.EventTaskCreated, service.EventTaskUpdated, service.EventTaskDeleted,
		service.EventTaskMoved, service.EventStatusCreated, service.EventStatusUpdated,
		service.EventStatusDeleted,
	}
	for _, event := range events {
		d.Dispatch(envelopeFor(t, event, map[string]string{"taskId": uuid.New().String()}))
	}

	if inv.count() != int64(len(events)) {
		t.Fatalf("expected %d invalidations, got %d", len(events), inv.count())
	}
}

func TestDispatch_UnknownEventIsIgnored(t *testing.T) {
	d, inv, _, _ := newDispatcherForTest(uuid.New())

	d.Dispatch(envelopeFor(t, "client-count", map[string]int{"count": 3}))

	if inv.count() != 0 {
		t.Fatal("unknown event must not invalidate")
	}
}

func TestDispatch_PresenceLifecycle(t *testing.T) {
	self := uuid.New()
	other := uuid.New()
	d, _, presence, cursors := newDispatcherForTest(self)

	d.Dispatch(envelopeFor(t, realtime.EventPresenceSnapshot, realtime.PresenceSnapshot{
		Members: []realtime.PresenceMember{{UserID: self}, {UserID: other}},
	}))
	if !presence.Contains(other) || presence.Contains(self) {
		t.Fatal("snapshot handling wrong")
	}

	d.Dispatch(envelopeFor(t, realtime.EventCursorUpdate, realtime.CursorPosition{
		UserID: other, X: 5, Y: 5, Timestamp: realtime.NowMillis(),
	}))
	if _, ok := cursors.Get(other); !ok {
		t.Fatal("cursor of visible member must be tracked")
	}

	d.Dispatch(envelopeFor(t, realtime.EventMemberRemoved, realtime.PresenceMember{UserID: other}))
	if presence.Contains(other) {
		t.Fatal("member-removed must drop the member")
	}
	if _, ok := cursors.Get(other); ok {
		t.Fatal("departing member's cursor must be evicted with them")
	}
}

func TestDispatch_CursorOfUnknownUserIgnored(t *testing.T) {
	d, _, _, cursors := newDispatcherForTest(uuid.New())
	stranger := uuid.New()

	d.Dispatch(envelopeFor(t, realtime.EventCursorUpdate, realtime.CursorPosition{
		UserID: stranger, X: 1, Y: 1, Timestamp: realtime.NowMillis(),
	}))

	if _, ok := cursors.Get(stranger); ok {
		t.Fatal("cursor for a user outside the member set must be dropped")
	}
}
