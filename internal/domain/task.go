package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the priority level of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ValidPriority reports whether p is one of the accepted priority values
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a unit of work within a status column
type Task struct {
	BaseModel
	ProjectID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_project_id" json:"project_id"`
	StatusID    uuid.UUID    `gorm:"type:uuid;not null;index:idx_tasks_status_id" json:"status_id"`
	AssigneeID  *uuid.UUID   `gorm:"type:uuid;index:idx_tasks_assignee_id" json:"assignee_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Order       int          `gorm:"column:display_order;not null;default:0;index:idx_tasks_order" json:"order"`
	StartDate   *time.Time   `gorm:"type:timestamp" json:"start_date"`
	DueDate     *time.Time   `gorm:"type:timestamp;index:idx_tasks_due_date" json:"due_date"`
	ImageURL    string       `gorm:"type:text" json:"image_url"`
	Project     Project      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Status      Status       `gorm:"foreignKey:StatusID;constraint:OnDelete:CASCADE" json:"status,omitempty"`
	Comments    []Comment    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}
