package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-sync-api/internal/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByIDWithDetail(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	FindByStatusID(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateOrder(ctx context.Context, id uuid.UUID, order int) error
	UpdateStatusAndOrder(ctx context.Context, id, statusID uuid.UUID, order int) error
	Delete(ctx context.Context, id uuid.UUID) error
	MaxOrder(ctx context.Context, statusID uuid.UUID) (int, error)
	CountComments(ctx context.Context, taskID uuid.UUID) (int64, error)
}

// taskRepositoryImpl is the GORM implementation of TaskRepository
type taskRepositoryImpl struct {
	db *gorm.DB
}

// NewTaskRepository creates a new instance of TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepositoryImpl{db: db}
}

// Create creates a new task
func (r *taskRepositoryImpl) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID with its status
func (r *taskRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByIDWithDetail finds a task by ID with its status and comments in
// chronological order
func (r *taskRepositoryImpl) FindByIDWithDetail(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).
		Preload("Status").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByProjectID finds all tasks in a project ordered by column position
func (r *taskRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("display_order ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByStatusID finds all tasks in a status column ordered by position
func (r *taskRepositoryImpl) FindByStatusID(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.WithContext(ctx).
		Where("status_id = ?", statusID).
		Order("display_order ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *taskRepositoryImpl) Update(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// UpdateOrder updates only the position of a task within its column
func (r *taskRepositoryImpl) UpdateOrder(ctx context.Context, id uuid.UUID, order int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Update("display_order", order).Error
}

// UpdateStatusAndOrder moves a task to another column at the given position
func (r *taskRepositoryImpl) UpdateStatusAndOrder(ctx context.Context, id, statusID uuid.UUID, order int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status_id":     statusID,
			"display_order": order,
		}).Error
}

// Delete deletes a task; cascades remove its comments
func (r *taskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

// MaxOrder returns the highest task position in a column, -1 when empty
func (r *taskRepositoryImpl) MaxOrder(ctx context.Context, statusID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("status_id = ?", statusID).
		Select("MAX(display_order)").
		Scan(&max).Error; err != nil {
		return -1, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// CountComments counts the comments on a task
func (r *taskRepositoryImpl) CountComments(ctx context.Context, taskID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}
