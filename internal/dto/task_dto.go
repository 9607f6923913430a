package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest represents the request to create a task
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255" example:"Wire up the billing webhook"`
	Description string     `json:"description" binding:"max=10000"`
	StatusID    uuid.UUID  `json:"statusId" binding:"required"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ImageURL    string     `json:"imageUrl" binding:"omitempty,max=2048"`
}

// UpdateTaskRequest represents the request to update a task. All fields are
// optional; a nil assigneeId leaves the assignee unchanged while uuid.Nil
// clears it.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=10000"`
	StatusID    *uuid.UUID `json:"statusId,omitempty"`
	AssigneeID  *uuid.UUID `json:"assigneeId,omitempty"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Order       *int       `json:"order" binding:"omitempty,min=0"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ImageURL    *string    `json:"imageUrl" binding:"omitempty,max=2048"`
}

// MoveTaskRequest represents the request to move a task within or across columns
type MoveTaskRequest struct {
	StatusID uuid.UUID `json:"statusId" binding:"required"`
	Order    *int      `json:"order" binding:"omitempty,min=0"`
}

// TaskResponse represents the task response
type TaskResponse struct {
	ID          uuid.UUID       `json:"taskId"`
	ProjectID   uuid.UUID       `json:"projectId"`
	StatusID    uuid.UUID       `json:"statusId"`
	AssigneeID  *uuid.UUID      `json:"assigneeId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    string          `json:"priority"`
	Order       int             `json:"order"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Status      *StatusResponse `json:"status,omitempty"`
	CommentCount int64          `json:"commentCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// TaskDetailResponse includes the task's comments
type TaskDetailResponse struct {
	TaskResponse
	Comments []CommentResponse `json:"comments"`
}
