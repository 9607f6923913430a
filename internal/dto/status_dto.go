package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateStatusRequest represents the request to create a status column
type CreateStatusRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100" example:"In Review"`
	Color   string `json:"color" binding:"omitempty,max=20" example:"#8b5cf6"`
	Unicode string `json:"unicode" binding:"omitempty,max=10" example:"🔍"`
}

// UpdateStatusRequest represents the request to update a status column.
// Order updates reposition the column within the project.
type UpdateStatusRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color   *string `json:"color" binding:"omitempty,max=20"`
	Unicode *string `json:"unicode" binding:"omitempty,max=10"`
	Order   *int    `json:"order" binding:"omitempty,min=0"`
}

// ReorderStatusesRequest carries the full column ordering for a project.
// Every column must appear exactly once.
type ReorderStatusesRequest struct {
	StatusIDs []uuid.UUID `json:"statusIds" binding:"required,min=1"`
}

// StatusResponse represents the status column response
type StatusResponse struct {
	ID        uuid.UUID `json:"statusId"`
	ProjectID uuid.UUID `json:"projectId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Unicode   string    `json:"unicode"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
