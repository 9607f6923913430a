package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-sync-api/internal/domain"
	"project-sync-api/internal/dto"
	"project-sync-api/internal/repository"
	"project-sync-api/internal/response"
)

const (
	defaultStatusColor   = "#6b7280"
	defaultStatusUnicode = "📋"
)

// StatusService defines the interface for status column business logic
type StatusService interface {
	CreateStatus(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error)
	ListStatuses(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.StatusResponse, error)
	UpdateStatus(ctx context.Context, projectID, statusID, userID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error)
	ReorderStatuses(ctx context.Context, projectID, userID uuid.UUID, orderedIDs []uuid.UUID) error
	DeleteStatus(ctx context.Context, projectID, statusID, userID uuid.UUID) error
}

// statusServiceImpl is the implementation of StatusService
type statusServiceImpl struct {
	statusRepo  repository.StatusRepository
	projectRepo repository.ProjectRepository
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewStatusService creates a new instance of StatusService
func NewStatusService(statusRepo repository.StatusRepository, projectRepo repository.ProjectRepository, publisher EventPublisher, logger *zap.Logger) StatusService {
	return &statusServiceImpl{
		statusRepo:  statusRepo,
		projectRepo: projectRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateStatus appends a new column to the right edge of the board. Color and
// glyph fall back to neutral defaults when the request omits them.
func (s *statusServiceImpl) CreateStatus(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	maxOrder, err := s.statusRepo.MaxOrder(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to determine column position", err.Error())
	}

	status := &domain.Status{
		ProjectID: projectID,
		Name:      req.Name,
		Color:     req.Color,
		Unicode:   req.Unicode,
		Order:     maxOrder + 1,
	}
	if status.Color == "" {
		status.Color = defaultStatusColor
	}
	if status.Unicode == "" {
		status.Unicode = defaultStatusUnicode
	}

	if err := s.statusRepo.Create(ctx, status); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create status", err.Error())
	}

	resp := toStatusResponse(status)
	s.publisher.Publish(projectID, EventStatusCreated, map[string]interface{}{
		"statusId":  status.ID,
		"projectId": projectID,
	})
	return &resp, nil
}

// ListStatuses returns a project's columns in board order
func (s *statusServiceImpl) ListStatuses(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.StatusResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	statuses, err := s.statusRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list statuses", err.Error())
	}

	responses := make([]*dto.StatusResponse, 0, len(statuses))
	for _, st := range statuses {
		resp := toStatusResponse(st)
		responses = append(responses, &resp)
	}
	return responses, nil
}

// UpdateStatus updates a column's name, color, glyph or position
func (s *statusServiceImpl) UpdateStatus(ctx context.Context, projectID, statusID, userID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	status, err := s.findProjectStatus(ctx, projectID, statusID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		status.Name = *req.Name
	}
	if req.Color != nil {
		status.Color = *req.Color
	}
	if req.Unicode != nil {
		status.Unicode = *req.Unicode
	}
	if req.Order != nil {
		status.Order = *req.Order
	}

	if err := s.statusRepo.Update(ctx, status); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update status", err.Error())
	}

	resp := toStatusResponse(status)
	s.publisher.Publish(projectID, EventStatusUpdated, map[string]interface{}{
		"statusId":  status.ID,
		"projectId": projectID,
	})
	return &resp, nil
}

// ReorderStatuses persists a full left-to-right column ordering. Every column
// of the project must appear exactly once.
func (s *statusServiceImpl) ReorderStatuses(ctx context.Context, projectID, userID uuid.UUID, orderedIDs []uuid.UUID) error {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return err
	}

	existing, err := s.statusRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to list statuses", err.Error())
	}
	if len(orderedIDs) != len(existing) {
		return response.NewAppError(response.ErrCodeValidation, "Ordering must include every column exactly once", "")
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, st := range existing {
		known[st.ID] = true
	}
	for _, id := range orderedIDs {
		if !known[id] {
			return response.NewAppError(response.ErrCodeValidation, "Ordering references a column outside this project", id.String())
		}
		delete(known, id)
	}

	for _, update := range PlanColumnReorder(orderedIDs) {
		if err := s.statusRepo.UpdateOrder(ctx, update.ID, update.Order); err != nil {
			return response.NewAppError(response.ErrCodeInternal, "Failed to reorder statuses", err.Error())
		}
	}

	s.publisher.Publish(projectID, EventStatusUpdated, map[string]interface{}{
		"projectId": projectID,
	})
	return nil
}

// DeleteStatus removes a column and, via cascade, every task in it
func (s *statusServiceImpl) DeleteStatus(ctx context.Context, projectID, statusID, userID uuid.UUID) error {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return err
	}
	status, err := s.findProjectStatus(ctx, projectID, statusID)
	if err != nil {
		return err
	}

	if err := s.statusRepo.Delete(ctx, status.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete status", err.Error())
	}

	s.publisher.Publish(projectID, EventStatusDeleted, map[string]interface{}{
		"statusId":  statusID,
		"projectId": projectID,
	})
	return nil
}

// requireMember verifies the caller belongs to the project
func (s *statusServiceImpl) requireMember(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeForbidden, "You are not a member of this project", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to verify membership", err.Error())
	}
	return nil
}

// findProjectStatus loads a status and checks it belongs to the project
func (s *statusServiceImpl) findProjectStatus(ctx context.Context, projectID, statusID uuid.UUID) (*domain.Status, error) {
	status, err := s.statusRepo.FindByID(ctx, statusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Status not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get status", err.Error())
	}
	if status.ProjectID != projectID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Status not found in this project", "")
	}
	return status, nil
}

func toStatusResponse(st *domain.Status) dto.StatusResponse {
	return dto.StatusResponse{
		ID:        st.ID,
		ProjectID: st.ProjectID,
		Name:      st.Name,
		Color:     st.Color,
		Unicode:   st.Unicode,
		Order:     st.Order,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}
