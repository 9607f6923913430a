package sync

import (
	"testing"

	"github.com/google/uuid"

	"project-sync-api/internal/realtime"
)

func TestPresenceTracker_SnapshotExcludesSelf(t *testing.T) {
	self := uuid.New()
	other := uuid.New()
	tracker := NewPresenceTracker(self)

	tracker.ApplySnapshot(realtime.PresenceSnapshot{
		Members: []realtime.PresenceMember{
			{UserID: self},
			{UserID: other},
		},
	})

	if tracker.Contains(self) {
		t.Fatal("local user leaked into own member set")
	}
	if !tracker.Contains(other) {
		t.Fatal("remote member missing from snapshot")
	}
	if len(tracker.Members()) != 1 {
		t.Fatalf("expected exactly one member, got %d", len(tracker.Members()))
	}
}

func TestPresenceTracker_AddDeduplicates(t *testing.T) {
	tracker := NewPresenceTracker(uuid.New())
	other := uuid.New()

	if !tracker.Add(other) {
		t.Fatal("first add must succeed")
	}
	if tracker.Add(other) {
		t.Fatal("duplicate member-added must be ignored")
	}
	if len(tracker.Members()) != 1 {
		t.Fatalf("expected one member after duplicate add, got %d", len(tracker.Members()))
	}
}

func TestPresenceTracker_AddIgnoresSelf(t *testing.T) {
	self := uuid.New()
	tracker := NewPresenceTracker(self)

	if tracker.Add(self) {
		t.Fatal("self must never join own member set")
	}
}

func TestPresenceTracker_RemoveUnknownIsNoop(t *testing.T) {
	tracker := NewPresenceTracker(uuid.New())
	if tracker.Remove(uuid.New()) {
		t.Fatal("removing an unknown member must report false")
	}
}

func TestPresenceTracker_ResetClearsMembers(t *testing.T) {
	tracker := NewPresenceTracker(uuid.New())
	tracker.Add(uuid.New())
	tracker.Add(uuid.New())

	tracker.Reset()
	if len(tracker.Members()) != 0 {
		t.Fatal("reset must clear the member set")
	}
}

func TestColorFor_Deterministic(t *testing.T) {
	id := uuid.New()
	if ColorFor(id) != ColorFor(id) {
		t.Fatal("member color must be stable for a user")
	}
}
