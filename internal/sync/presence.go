package sync

import (
	"hash/fnv"
	"sort"
	"sync"

	"github.com/google/uuid"

	"project-sync-api/internal/realtime"
)

// memberPalette colors remote collaborators deterministically
var memberPalette = []string{
	"#ef4444", "#f97316", "#eab308", "#22c55e",
	"#06b6d4", "#3b82f6", "#8b5cf6", "#ec4899",
}

// PresenceTracker maintains the set of collaborators visible on a project
// channel. The local user is never part of the set: the snapshot already
// excludes them server-side and Add filters them out again, so reconnects
// cannot leak the self entry in.
type PresenceTracker struct {
	selfID uuid.UUID

	mu      sync.RWMutex
	members map[uuid.UUID]bool
}

// NewPresenceTracker creates a tracker for the given local user
func NewPresenceTracker(selfID uuid.UUID) *PresenceTracker {
	return &PresenceTracker{
		selfID:  selfID,
		members: make(map[uuid.UUID]bool),
	}
}

// ApplySnapshot resets the member set from a channel subscription snapshot
func (p *PresenceTracker) ApplySnapshot(snapshot realtime.PresenceSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members = make(map[uuid.UUID]bool, len(snapshot.Members))
	for _, m := range snapshot.Members {
		if m.UserID != p.selfID {
			p.members[m.UserID] = true
		}
	}
}

// Add records an arriving member. Returns false for duplicates and for the
// local user, so repeated member-added frames are harmless.
func (p *PresenceTracker) Add(userID uuid.UUID) bool {
	if userID == p.selfID {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.members[userID] {
		return false
	}
	p.members[userID] = true
	return true
}

// Remove drops a departing member. Returns false when they were not tracked.
func (p *PresenceTracker) Remove(userID uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.members[userID] {
		return false
	}
	delete(p.members, userID)
	return true
}

// Contains reports whether a user is currently visible
func (p *PresenceTracker) Contains(userID uuid.UUID) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.members[userID]
}

// Members returns the visible collaborators in stable order
func (p *PresenceTracker) Members() []uuid.UUID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(p.members))
	for id := range p.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Reset clears the member set, used when leaving a project
func (p *PresenceTracker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.members = make(map[uuid.UUID]bool)
}

// ColorFor picks a deterministic display color for a user
func ColorFor(userID uuid.UUID) string {
	h := fnv.New32a()
	h.Write(userID[:])
	return memberPalette[h.Sum32()%uint32(len(memberPalette))]
}
