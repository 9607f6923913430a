package domain

import "github.com/google/uuid"

// Comment represents a comment on a task
type Comment struct {
	BaseModel
	TaskID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_task_id" json:"task_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_user_id" json:"user_id"`
	Content string    `gorm:"type:text;not null" json:"content"`
	Task    Task      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
