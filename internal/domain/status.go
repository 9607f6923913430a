package domain

import "github.com/google/uuid"

// Status represents a kanban column within a project
type Status struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_statuses_project_id" json:"project_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Color     string    `gorm:"type:varchar(20);not null;default:'#6b7280'" json:"color"`
	Unicode   string    `gorm:"type:varchar(10)" json:"unicode"`
	Order     int       `gorm:"column:display_order;not null;default:0;index:idx_statuses_order" json:"order"`
	Project   Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Tasks     []Task    `gorm:"foreignKey:StatusID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName specifies the table name for Status
func (Status) TableName() string {
	return "statuses"
}
