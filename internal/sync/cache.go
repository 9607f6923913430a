package sync

import (
	"sync"

	"github.com/google/uuid"

	"project-sync-api/internal/dto"
)

// BoardCache holds the client's local copy of a board. All reads hand out
// deep copies and all writes happen under the lock, so a snapshot taken
// before a mutation is immune to later cache writes.
type BoardCache struct {
	mu    sync.RWMutex
	board *Board
}

// NewBoardCache creates an empty cache
func NewBoardCache() *BoardCache {
	return &BoardCache{}
}

// Get returns a copy of the cached board, nil before the first fetch
func (c *BoardCache) Get() *Board {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.board.Clone()
}

// Set replaces the cached board with authoritative server state
func (c *BoardCache) Set(board *Board) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.board = board.Clone()
}

// Snapshot captures the current board for a later rollback
func (c *BoardCache) Snapshot() *Board {
	return c.Get()
}

// Restore rewinds the cache to a snapshot
func (c *BoardCache) Restore(snapshot *Board) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.board = snapshot.Clone()
}

// Apply runs a mutator against the cached board under the write lock. No-op
// before the first fetch.
func (c *BoardCache) Apply(mutate func(*Board)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.board == nil {
		return
	}
	mutate(c.board)
}

// UpsertTask inserts or replaces a task by ID
func (b *Board) UpsertTask(task dto.TaskResponse) {
	for i, t := range b.Tasks {
		if t.ID == task.ID {
			b.Tasks[i] = task
			return
		}
	}
	b.Tasks = append(b.Tasks, task)
}

// ReplaceTaskID swaps a temporary optimistic ID for the server-issued one
func (b *Board) ReplaceTaskID(tempID uuid.UUID, task dto.TaskResponse) {
	for i, t := range b.Tasks {
		if t.ID == tempID {
			b.Tasks[i] = task
			return
		}
	}
	b.Tasks = append(b.Tasks, task)
}

// RemoveTask deletes a task by ID
func (b *Board) RemoveTask(taskID uuid.UUID) {
	for i, t := range b.Tasks {
		if t.ID == taskID {
			b.Tasks = append(b.Tasks[:i], b.Tasks[i+1:]...)
			return
		}
	}
}

// FindTask returns a pointer into the board's task slice, nil when absent.
// Only valid inside an Apply mutator.
func (b *Board) FindTask(taskID uuid.UUID) *dto.TaskResponse {
	for i := range b.Tasks {
		if b.Tasks[i].ID == taskID {
			return &b.Tasks[i]
		}
	}
	return nil
}

// UpsertStatus inserts or replaces a status column by ID
func (b *Board) UpsertStatus(status dto.StatusResponse) {
	for i, st := range b.Statuses {
		if st.ID == status.ID {
			b.Statuses[i] = status
			return
		}
	}
	b.Statuses = append(b.Statuses, status)
}

// ReplaceStatusID swaps a temporary optimistic ID for the server-issued one
func (b *Board) ReplaceStatusID(tempID uuid.UUID, status dto.StatusResponse) {
	for i, st := range b.Statuses {
		if st.ID == tempID {
			b.Statuses[i] = status
			return
		}
	}
	b.Statuses = append(b.Statuses, status)
}

// RemoveStatus deletes a column and every task in it
func (b *Board) RemoveStatus(statusID uuid.UUID) {
	for i, st := range b.Statuses {
		if st.ID == statusID {
			b.Statuses = append(b.Statuses[:i], b.Statuses[i+1:]...)
			break
		}
	}
	kept := b.Tasks[:0]
	for _, t := range b.Tasks {
		if t.StatusID != statusID {
			kept = append(kept, t)
		}
	}
	b.Tasks = kept
}
