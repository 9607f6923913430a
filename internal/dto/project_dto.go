package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest represents the request to create a new project
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100" example:"Q1 2026 Product Launch"`
	Description string `json:"description" binding:"max=500" example:"Everything needed to ship in Q1"`
}

// UpdateProjectRequest represents the request to update a project. All fields are optional.
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// InviteMemberRequest represents the request to add a member to a project
type InviteMemberRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// ProjectCounts carries aggregate counts for a project
type ProjectCounts struct {
	Tasks    int64 `json:"tasks"`
	Statuses int64 `json:"statuses"`
}

// ProjectResponse represents the project response
type ProjectResponse struct {
	ID          uuid.UUID     `json:"projectId"`
	OwnerID     uuid.UUID     `json:"ownerId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Counts      ProjectCounts `json:"counts"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// ProjectDetailResponse includes the full board: statuses, tasks and members
type ProjectDetailResponse struct {
	ProjectResponse
	Statuses []StatusResponse        `json:"statuses"`
	Tasks    []TaskResponse          `json:"tasks"`
	Members  []ProjectMemberResponse `json:"members"`
}

// ProjectMemberResponse represents a project member
type ProjectMemberResponse struct {
	MemberID  uuid.UUID `json:"memberId"`
	ProjectID uuid.UUID `json:"projectId"`
	UserID    uuid.UUID `json:"userId"`
	JoinedAt  time.Time `json:"joinedAt"`
}
