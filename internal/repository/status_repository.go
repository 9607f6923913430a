package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-sync-api/internal/domain"
)

// StatusRepository defines the interface for status column data access
type StatusRepository interface {
	Create(ctx context.Context, status *domain.Status) error
	CreateBatch(ctx context.Context, statuses []*domain.Status) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Status, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error)
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, status *domain.Status) error
	UpdateOrder(ctx context.Context, id uuid.UUID, order int) error
	Delete(ctx context.Context, id uuid.UUID) error
	MaxOrder(ctx context.Context, projectID uuid.UUID) (int, error)
}

// statusRepositoryImpl is the GORM implementation of StatusRepository
type statusRepositoryImpl struct {
	db *gorm.DB
}

// NewStatusRepository creates a new instance of StatusRepository
func NewStatusRepository(db *gorm.DB) StatusRepository {
	return &statusRepositoryImpl{db: db}
}

// Create creates a new status column
func (r *statusRepositoryImpl) Create(ctx context.Context, status *domain.Status) error {
	return r.db.WithContext(ctx).Create(status).Error
}

// CreateBatch creates several status columns at once (default board seeding)
func (r *statusRepositoryImpl) CreateBatch(ctx context.Context, statuses []*domain.Status) error {
	if len(statuses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(statuses).Error
}

// FindByID finds a status by ID
func (r *statusRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Status, error) {
	var status domain.Status
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// FindByProjectID finds all status columns of a project ordered by position
func (r *statusRepositoryImpl) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error) {
	var statuses []*domain.Status
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("display_order ASC").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// FindAllIDs lists the IDs of every status column across all projects
func (r *statusRepositoryImpl) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&domain.Status{}).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update updates a status column
func (r *statusRepositoryImpl) Update(ctx context.Context, status *domain.Status) error {
	return r.db.WithContext(ctx).Save(status).Error
}

// UpdateOrder updates only the position of a status column
func (r *statusRepositoryImpl) UpdateOrder(ctx context.Context, id uuid.UUID, order int) error {
	return r.db.WithContext(ctx).
		Model(&domain.Status{}).
		Where("id = ?", id).
		Update("display_order", order).Error
}

// Delete deletes a status column; cascades remove its tasks
func (r *statusRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Status{}, "id = ?", id).Error
}

// MaxOrder returns the highest column position in a project, -1 when empty
func (r *statusRepositoryImpl) MaxOrder(ctx context.Context, projectID uuid.UUID) (int, error) {
	var max *int
	if err := r.db.WithContext(ctx).
		Model(&domain.Status{}).
		Where("project_id = ?", projectID).
		Select("MAX(display_order)").
		Scan(&max).Error; err != nil {
		return -1, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}
