package sync

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-sync-api/internal/domain"
	"project-sync-api/internal/dto"
)

var (
	// ErrInvalidMutation rejects a mutation before any cache write happens
	ErrInvalidMutation = errors.New("invalid mutation")
)

// MutationClient performs optimistic board mutations for one project. Every
// mutation follows the same protocol: cancel any in-flight refetch, snapshot
// the cache, write the predicted outcome into it, then issue the durable
// request. Failure restores the snapshot exactly and surfaces the error
// through the notifier; success merges the authoritative entity. Either way
// the board is invalidated afterwards so a background refetch converges the
// cache onto server state.
type MutationClient struct {
	projectID uuid.UUID
	store     Store
	cache     *BoardCache
	notifier  Notifier
	logger    *zap.Logger

	refetchMu     sync.Mutex
	refetchCancel context.CancelFunc
	refetchDone   chan struct{}
}

// NewMutationClient creates a mutation client over a store and cache
func NewMutationClient(projectID uuid.UUID, store Store, cache *BoardCache, notifier Notifier, logger *zap.Logger) *MutationClient {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MutationClient{
		projectID: projectID,
		store:     store,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
	}
}

// Cache exposes the client's board cache
func (m *MutationClient) Cache() *BoardCache {
	return m.cache
}

// Refresh fetches the board synchronously and replaces the cache
func (m *MutationClient) Refresh(ctx context.Context) error {
	board, err := m.store.FetchBoard(ctx, m.projectID)
	if err != nil {
		return err
	}
	m.cache.Set(board)
	return nil
}

// Invalidate schedules a background refetch of the board. A later mutation
// or invalidation cancels it, so a stale response never overwrites newer
// local state.
func (m *MutationClient) Invalidate() {
	ctx := m.restartRefetch()
	done := m.refetchDone
	go func() {
		defer close(done)
		board, err := m.store.FetchBoard(ctx, m.projectID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				m.logger.Warn("board refetch failed", zap.Error(err))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		m.cache.Set(board)
	}()
}

// WaitSettled blocks until the most recent background refetch finishes
func (m *MutationClient) WaitSettled() {
	m.refetchMu.Lock()
	done := m.refetchDone
	m.refetchMu.Unlock()
	if done != nil {
		<-done
	}
}

// restartRefetch cancels the in-flight refetch and arms a new one
func (m *MutationClient) restartRefetch() context.Context {
	m.refetchMu.Lock()
	defer m.refetchMu.Unlock()
	if m.refetchCancel != nil {
		m.refetchCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.refetchCancel = cancel
	m.refetchDone = make(chan struct{})
	return ctx
}

// cancelRefetch kills any in-flight refetch without arming a new one
func (m *MutationClient) cancelRefetch() {
	m.refetchMu.Lock()
	defer m.refetchMu.Unlock()
	if m.refetchCancel != nil {
		m.refetchCancel()
		m.refetchCancel = nil
	}
}

// mutate runs one optimistic mutation cycle
func (m *MutationClient) mutate(optimistic func(*Board), request func() error, failureMsg string) error {
	m.cancelRefetch()
	snapshot := m.cache.Snapshot()
	m.cache.Apply(optimistic)

	if err := request(); err != nil {
		m.cache.Restore(snapshot)
		m.notifier.Notify(failureMsg)
		m.Invalidate()
		return err
	}
	m.Invalidate()
	return nil
}

// CreateTask optimistically appends a task to the bottom of its column under
// a temporary ID, replaced by the server-issued entity on success. Returns
// the server-issued task ID.
func (m *MutationClient) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (uuid.UUID, error) {
	if req.Title == "" {
		return uuid.Nil, ErrInvalidMutation
	}
	if req.Priority != "" && !domain.ValidPriority(domain.TaskPriority(req.Priority)) {
		return uuid.Nil, ErrInvalidMutation
	}
	if req.StatusID == uuid.Nil {
		return uuid.Nil, ErrInvalidMutation
	}

	tempID := uuid.New()
	var createdID uuid.UUID
	err := m.mutate(
		func(b *Board) {
			order := 0
			for _, t := range b.TasksInStatus(req.StatusID) {
				if t.Order >= order {
					order = t.Order + 1
				}
			}
			priority := req.Priority
			if priority == "" {
				priority = string(domain.PriorityMedium)
			}
			b.UpsertTask(dto.TaskResponse{
				ID:          tempID,
				ProjectID:   m.projectID,
				StatusID:    req.StatusID,
				AssigneeID:  req.AssigneeID,
				Title:       req.Title,
				Description: req.Description,
				Priority:    priority,
				Order:       order,
				StartDate:   req.StartDate,
				DueDate:     req.DueDate,
				ImageURL:    req.ImageURL,
			})
		},
		func() error {
			created, err := m.store.CreateTask(ctx, m.projectID, req)
			if err != nil {
				return err
			}
			createdID = created.ID
			m.cache.Apply(func(b *Board) {
				b.ReplaceTaskID(tempID, *created)
			})
			return nil
		},
		"Failed to create task",
	)
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

// UpdateTask optimistically edits a task's fields in place
func (m *MutationClient) UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) error {
	if req.Title != nil && *req.Title == "" {
		return ErrInvalidMutation
	}
	if req.Priority != nil && !domain.ValidPriority(domain.TaskPriority(*req.Priority)) {
		return ErrInvalidMutation
	}

	return m.mutate(
		func(b *Board) {
			task := b.FindTask(taskID)
			if task == nil {
				return
			}
			if req.Title != nil {
				task.Title = *req.Title
			}
			if req.Description != nil {
				task.Description = *req.Description
			}
			if req.StatusID != nil {
				task.StatusID = *req.StatusID
			}
			if req.AssigneeID != nil {
				if *req.AssigneeID == uuid.Nil {
					task.AssigneeID = nil
				} else {
					task.AssigneeID = req.AssigneeID
				}
			}
			if req.Priority != nil {
				task.Priority = *req.Priority
			}
			if req.Order != nil {
				task.Order = *req.Order
			}
			if req.StartDate != nil {
				task.StartDate = req.StartDate
			}
			if req.DueDate != nil {
				task.DueDate = req.DueDate
			}
			if req.ImageURL != nil {
				task.ImageURL = *req.ImageURL
			}
		},
		func() error {
			updated, err := m.store.UpdateTask(ctx, m.projectID, taskID, req)
			if err != nil {
				return err
			}
			m.cache.Apply(func(b *Board) {
				b.UpsertTask(*updated)
			})
			return nil
		},
		"Failed to update task",
	)
}

// MoveTask optimistically applies the same order shifts the server will:
// within a column the displaced band moves by one; across columns the task
// lands at the drop position (or the bottom) and later target siblings shift
// down, while the source column keeps its gaps
func (m *MutationClient) MoveTask(ctx context.Context, taskID uuid.UUID, req *dto.MoveTaskRequest) error {
	if req.StatusID == uuid.Nil {
		return ErrInvalidMutation
	}

	return m.mutate(
		func(b *Board) {
			applyMove(b, taskID, req)
		},
		func() error {
			moved, err := m.store.MoveTask(ctx, m.projectID, taskID, req)
			if err != nil {
				return err
			}
			m.cache.Apply(func(b *Board) {
				b.UpsertTask(*moved)
			})
			return nil
		},
		"Failed to move task",
	)
}

// DeleteTask optimistically removes a task from the board
func (m *MutationClient) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	return m.mutate(
		func(b *Board) {
			b.RemoveTask(taskID)
		},
		func() error {
			return m.store.DeleteTask(ctx, m.projectID, taskID)
		},
		"Failed to delete task",
	)
}

// CreateStatus optimistically appends a column to the right edge of the
// board. Returns the server-issued status ID.
func (m *MutationClient) CreateStatus(ctx context.Context, req *dto.CreateStatusRequest) (uuid.UUID, error) {
	if req.Name == "" {
		return uuid.Nil, ErrInvalidMutation
	}

	tempID := uuid.New()
	var createdID uuid.UUID
	err := m.mutate(
		func(b *Board) {
			order := 0
			for _, st := range b.Statuses {
				if st.Order >= order {
					order = st.Order + 1
				}
			}
			b.UpsertStatus(dto.StatusResponse{
				ID:        tempID,
				ProjectID: m.projectID,
				Name:      req.Name,
				Color:     req.Color,
				Unicode:   req.Unicode,
				Order:     order,
			})
		},
		func() error {
			created, err := m.store.CreateStatus(ctx, m.projectID, req)
			if err != nil {
				return err
			}
			createdID = created.ID
			m.cache.Apply(func(b *Board) {
				b.ReplaceStatusID(tempID, *created)
			})
			return nil
		},
		"Failed to create status",
	)
	if err != nil {
		return uuid.Nil, err
	}
	return createdID, nil
}

// UpdateStatus optimistically edits a column in place
func (m *MutationClient) UpdateStatus(ctx context.Context, statusID uuid.UUID, req *dto.UpdateStatusRequest) error {
	if req.Name != nil && *req.Name == "" {
		return ErrInvalidMutation
	}

	return m.mutate(
		func(b *Board) {
			for i := range b.Statuses {
				if b.Statuses[i].ID != statusID {
					continue
				}
				if req.Name != nil {
					b.Statuses[i].Name = *req.Name
				}
				if req.Color != nil {
					b.Statuses[i].Color = *req.Color
				}
				if req.Unicode != nil {
					b.Statuses[i].Unicode = *req.Unicode
				}
				if req.Order != nil {
					b.Statuses[i].Order = *req.Order
				}
				return
			}
		},
		func() error {
			updated, err := m.store.UpdateStatus(ctx, m.projectID, statusID, req)
			if err != nil {
				return err
			}
			m.cache.Apply(func(b *Board) {
				b.UpsertStatus(*updated)
			})
			return nil
		},
		"Failed to update status",
	)
}

// DeleteStatus optimistically removes a column and its tasks
func (m *MutationClient) DeleteStatus(ctx context.Context, statusID uuid.UUID) error {
	return m.mutate(
		func(b *Board) {
			b.RemoveStatus(statusID)
		},
		func() error {
			return m.store.DeleteStatus(ctx, m.projectID, statusID)
		},
		"Failed to delete status",
	)
}

// applyMove mirrors the server's reorder plans against the local board
func applyMove(b *Board, taskID uuid.UUID, req *dto.MoveTaskRequest) {
	task := b.FindTask(taskID)
	if task == nil {
		return
	}

	if task.StatusID == req.StatusID {
		if req.Order == nil {
			return
		}
		siblings := b.TasksInStatus(task.StatusID)
		newOrder := *req.Order
		if newOrder < 0 {
			newOrder = 0
		}
		if max := len(siblings) - 1; newOrder > max {
			newOrder = max
		}
		oldOrder := task.Order
		if newOrder == oldOrder {
			return
		}
		for i := range b.Tasks {
			t := &b.Tasks[i]
			if t.StatusID != task.StatusID || t.ID == taskID {
				continue
			}
			switch {
			case newOrder < oldOrder && t.Order >= newOrder && t.Order < oldOrder:
				t.Order++
			case newOrder > oldOrder && t.Order > oldOrder && t.Order <= newOrder:
				t.Order--
			}
		}
		task.Order = newOrder
		return
	}

	if req.Order == nil {
		order := 0
		for _, t := range b.TasksInStatus(req.StatusID) {
			if t.Order >= order {
				order = t.Order + 1
			}
		}
		task.StatusID = req.StatusID
		task.Order = order
		return
	}

	order := *req.Order
	if order < 0 {
		order = 0
	}
	for i := range b.Tasks {
		t := &b.Tasks[i]
		if t.StatusID == req.StatusID && t.Order >= order {
			t.Order++
		}
	}
	task.StatusID = req.StatusID
	task.Order = order
}
