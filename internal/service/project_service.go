package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-sync-api/internal/domain"
	"project-sync-api/internal/dto"
	"project-sync-api/internal/metrics"
	"project-sync-api/internal/repository"
	"project-sync-api/internal/response"
)

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]*dto.ProjectResponse, error)
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error
	InviteMember(ctx context.Context, projectID, userID uuid.UUID, req *dto.InviteMemberRequest) (*dto.ProjectMemberResponse, error)
}

// defaultColumns are seeded onto every new project's board
var defaultColumns = []struct {
	Name    string
	Color   string
	Unicode string
}{
	{"To Do", "#6b7280", "📋"},
	{"In Progress", "#3b82f6", "🚧"},
	{"Done", "#22c55e", "✅"},
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo repository.ProjectRepository
	statusRepo  repository.StatusRepository
	taskRepo    repository.TaskRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, statusRepo repository.StatusRepository, taskRepo repository.TaskRepository, m *metrics.Metrics, logger *zap.Logger) ProjectService {
	return &projectServiceImpl{
		projectRepo: projectRepo,
		statusRepo:  statusRepo,
		taskRepo:    taskRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateProject creates a new project owned by the caller. The owner is also
// added as the first member so membership checks stay uniform.
func (s *projectServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*dto.ProjectResponse, error) {
	project := &domain.Project{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Members: []domain.ProjectMember{
			{UserID: userID},
		},
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	statuses := make([]*domain.Status, 0, len(defaultColumns))
	for i, col := range defaultColumns {
		statuses = append(statuses, &domain.Status{
			ProjectID: project.ID,
			Name:      col.Name,
			Color:     col.Color,
			Unicode:   col.Unicode,
			Order:     i,
		})
	}
	if err := s.statusRepo.CreateBatch(ctx, statuses); err != nil {
		s.logger.Error("failed to seed default columns",
			zap.String("project_id", project.ID.String()),
			zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.IncrementProjectCreated()
	}
	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", userID.String()))

	return s.toProjectResponse(ctx, project), nil
}

// ListProjects returns every project the caller is a member of, newest first
func (s *projectServiceImpl) ListProjects(ctx context.Context, userID uuid.UUID) ([]*dto.ProjectResponse, error) {
	projects, err := s.projectRepo.FindByMemberID(ctx, userID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list projects", err.Error())
	}

	responses := make([]*dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, s.toProjectResponse(ctx, p))
	}
	return responses, nil
}

// GetProject returns the full board of a project: its status columns and
// tasks ordered by position, plus the member list
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error) {
	project, err := s.projectRepo.FindByIDWithBoard(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get project", err.Error())
	}
	if !project.HasMember(userID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You are not a member of this project", "")
	}

	detail := &dto.ProjectDetailResponse{
		ProjectResponse: *s.toProjectResponse(ctx, project),
		Statuses:        make([]dto.StatusResponse, 0, len(project.Statuses)),
		Tasks:           make([]dto.TaskResponse, 0, len(project.Tasks)),
		Members:         make([]dto.ProjectMemberResponse, 0, len(project.Members)),
	}
	for i := range project.Statuses {
		detail.Statuses = append(detail.Statuses, toStatusResponse(&project.Statuses[i]))
	}
	for i := range project.Tasks {
		t := &project.Tasks[i]
		count, err := s.taskRepo.CountComments(ctx, t.ID)
		if err != nil {
			count = 0
		}
		detail.Tasks = append(detail.Tasks, toTaskResponse(t, count))
	}
	for i := range project.Members {
		detail.Members = append(detail.Members, toMemberResponse(&project.Members[i]))
	}
	return detail, nil
}

// UpdateProject updates a project's name or description. Any member may edit.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get project", err.Error())
	}
	if !project.HasMember(userID) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You are not a member of this project", "")
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update project", err.Error())
	}
	return s.toProjectResponse(ctx, project), nil
}

// DeleteProject deletes a project and everything on its board. Owner only.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := s.findOwnedProject(ctx, projectID, userID); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete project", err.Error())
	}
	s.logger.Info("project deleted", zap.String("project_id", projectID.String()))
	return nil
}

// InviteMember adds a user to a project. Owner only; inviting an existing
// member is a conflict.
func (s *projectServiceImpl) InviteMember(ctx context.Context, projectID, userID uuid.UUID, req *dto.InviteMemberRequest) (*dto.ProjectMemberResponse, error) {
	project, err := s.findOwnedProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project.HasMember(req.UserID) {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User is already a member of this project", "")
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
	}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add member", err.Error())
	}

	resp := toMemberResponse(member)
	return &resp, nil
}

// findOwnedProject loads a project and verifies the caller owns it
func (s *projectServiceImpl) findOwnedProject(ctx context.Context, projectID, userID uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Project not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get project", err.Error())
	}
	if project.OwnerID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the project owner can do this", "")
	}
	return project, nil
}

func (s *projectServiceImpl) toProjectResponse(ctx context.Context, project *domain.Project) *dto.ProjectResponse {
	taskCount, err := s.projectRepo.CountTasks(ctx, project.ID)
	if err != nil {
		taskCount = 0
	}
	statusCount, err := s.projectRepo.CountStatuses(ctx, project.ID)
	if err != nil {
		statusCount = 0
	}
	return &dto.ProjectResponse{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Name:        project.Name,
		Description: project.Description,
		Counts: dto.ProjectCounts{
			Tasks:    taskCount,
			Statuses: statusCount,
		},
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

func toMemberResponse(m *domain.ProjectMember) dto.ProjectMemberResponse {
	return dto.ProjectMemberResponse{
		MemberID:  m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		JoinedAt:  m.JoinedAt,
	}
}
