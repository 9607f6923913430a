package sync

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"project-sync-api/internal/realtime"
)

const (
	// DefaultCursorThrottle caps outgoing cursor traffic to roughly one
	// frame per animation tick
	DefaultCursorThrottle = 16 * time.Millisecond

	// DefaultCursorStaleAfter is how long a remote cursor survives without
	// a fresh sample
	DefaultCursorStaleAfter = 3000 * time.Millisecond
)

// CursorBroadcaster throttles outgoing cursor samples. At most one frame per
// interval goes out; a newer sample replaces any pending one rather than
// queueing behind it. Samples are dropped entirely until the channel
// subscription is up.
type CursorBroadcaster struct {
	send     func(realtime.CursorPosition)
	interval time.Duration

	mu         sync.Mutex
	subscribed bool
	cooling    bool
	pending    *realtime.CursorPosition
}

// NewCursorBroadcaster creates a broadcaster over a send function
func NewCursorBroadcaster(send func(realtime.CursorPosition), interval time.Duration) *CursorBroadcaster {
	if interval <= 0 {
		interval = DefaultCursorThrottle
	}
	return &CursorBroadcaster{send: send, interval: interval}
}

// SetSubscribed flips whether samples are forwarded or dropped
func (c *CursorBroadcaster) SetSubscribed(subscribed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribed = subscribed
	if !subscribed {
		c.pending = nil
	}
}

// Track submits a local pointer sample. The first sample in a quiet period
// goes out immediately; during the cooldown the latest sample wins and is
// flushed when the window closes.
func (c *CursorBroadcaster) Track(x, y float64) {
	pos := realtime.CursorPosition{X: x, Y: y, Timestamp: realtime.NowMillis()}

	c.mu.Lock()
	if !c.subscribed {
		c.mu.Unlock()
		return
	}
	if c.cooling {
		c.pending = &pos
		c.mu.Unlock()
		return
	}
	c.cooling = true
	c.mu.Unlock()

	c.send(pos)
	time.AfterFunc(c.interval, c.flush)
}

func (c *CursorBroadcaster) flush() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	if pending == nil || !c.subscribed {
		c.cooling = false
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.send(*pending)
	time.AfterFunc(c.interval, c.flush)
}

// CursorTracker keeps the latest known pointer position per remote
// collaborator and expires entries that stop refreshing. Eviction is keyed
// by the timestamp of the sample that scheduled it, so a timer armed by an
// old sample never deletes a newer entry.
type CursorTracker struct {
	staleAfter time.Duration

	mu      sync.RWMutex
	cursors map[uuid.UUID]realtime.CursorPosition
}

// NewCursorTracker creates a tracker with the given staleness window
func NewCursorTracker(staleAfter time.Duration) *CursorTracker {
	if staleAfter <= 0 {
		staleAfter = DefaultCursorStaleAfter
	}
	return &CursorTracker{
		staleAfter: staleAfter,
		cursors:    make(map[uuid.UUID]realtime.CursorPosition),
	}
}

// Observe records an incoming cursor sample and arms its staleness timer.
// Samples older than the one already held are ignored.
func (c *CursorTracker) Observe(pos realtime.CursorPosition) {
	c.mu.Lock()
	current, ok := c.cursors[pos.UserID]
	if ok && current.Timestamp > pos.Timestamp {
		c.mu.Unlock()
		return
	}
	c.cursors[pos.UserID] = pos
	c.mu.Unlock()

	time.AfterFunc(c.staleAfter, func() {
		c.evictIfStale(pos.UserID, pos.Timestamp)
	})
}

// evictIfStale removes a cursor only when no newer sample arrived since the
// timer was armed
func (c *CursorTracker) evictIfStale(userID uuid.UUID, timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.cursors[userID]
	if !ok || current.Timestamp > timestamp {
		return
	}
	delete(c.cursors, userID)
}

// Evict drops a user's cursor immediately, used when they leave the channel
func (c *CursorTracker) Evict(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cursors, userID)
}

// Get returns the latest position for a user
func (c *CursorTracker) Get(userID uuid.UUID) (realtime.CursorPosition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.cursors[userID]
	return pos, ok
}

// Len reports how many remote cursors are currently visible
func (c *CursorTracker) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cursors)
}

// Reset clears every cursor, used when leaving a project
func (c *CursorTracker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursors = make(map[uuid.UUID]realtime.CursorPosition)
}
