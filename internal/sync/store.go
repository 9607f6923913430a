package sync

import (
	"context"

	"github.com/google/uuid"

	"project-sync-api/internal/dto"
)

// Board is the client-side copy of one project's board
type Board struct {
	ProjectID uuid.UUID
	Statuses  []dto.StatusResponse
	Tasks     []dto.TaskResponse
}

// Clone deep-copies the board so snapshots never alias live cache state
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := &Board{ProjectID: b.ProjectID}
	out.Statuses = make([]dto.StatusResponse, len(b.Statuses))
	copy(out.Statuses, b.Statuses)
	out.Tasks = make([]dto.TaskResponse, len(b.Tasks))
	for i, t := range b.Tasks {
		task := t
		if t.AssigneeID != nil {
			id := *t.AssigneeID
			task.AssigneeID = &id
		}
		if t.StartDate != nil {
			d := *t.StartDate
			task.StartDate = &d
		}
		if t.DueDate != nil {
			d := *t.DueDate
			task.DueDate = &d
		}
		if t.Status != nil {
			st := *t.Status
			task.Status = &st
		}
		out.Tasks[i] = task
	}
	return out
}

// TasksInStatus returns the board's tasks in one column sorted by position
func (b *Board) TasksInStatus(statusID uuid.UUID) []dto.TaskResponse {
	var tasks []dto.TaskResponse
	for _, t := range b.Tasks {
		if t.StatusID == statusID {
			tasks = append(tasks, t)
		}
	}
	for i := 1; i < len(tasks); i++ {
		for j := i; j > 0 && tasks[j-1].Order > tasks[j].Order; j-- {
			tasks[j-1], tasks[j] = tasks[j], tasks[j-1]
		}
	}
	return tasks
}

// Store is the durable backend a sync client mutates through. The HTTP API
// client implements it against the server; tests implement it in memory.
type Store interface {
	FetchBoard(ctx context.Context, projectID uuid.UUID) (*Board, error)
	CreateTask(ctx context.Context, projectID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, projectID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	MoveTask(ctx context.Context, projectID, taskID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error
	CreateStatus(ctx context.Context, projectID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error)
	UpdateStatus(ctx context.Context, projectID, statusID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error)
	DeleteStatus(ctx context.Context, projectID, statusID uuid.UUID) error
}

// Notifier surfaces mutation failures to the user, the toast analog
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards notifications
type NopNotifier struct{}

// Notify discards the message
func (NopNotifier) Notify(message string) {}
