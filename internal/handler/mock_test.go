package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-sync-api/internal/domain"
	"project-sync-api/internal/dto"
)

// fakeAuth injects an authenticated user the way the auth middleware does
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("jwtToken", "test-token")
		c.Next()
	}
}

type MockProjectService struct {
	CreateProjectFunc func(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*dto.ProjectResponse, error)
	ListProjectsFunc  func(ctx context.Context, userID uuid.UUID) ([]*dto.ProjectResponse, error)
	GetProjectFunc    func(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error)
	UpdateProjectFunc func(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProjectFunc func(ctx context.Context, projectID, userID uuid.UUID) error
	InviteMemberFunc  func(ctx context.Context, projectID, userID uuid.UUID, req *dto.InviteMemberRequest) (*dto.ProjectMemberResponse, error)
}

func (m *MockProjectService) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*dto.ProjectResponse, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, req, userID)
	}
	return &dto.ProjectResponse{ID: uuid.New(), OwnerID: userID, Name: req.Name}, nil
}

func (m *MockProjectService) ListProjects(ctx context.Context, userID uuid.UUID) ([]*dto.ProjectResponse, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, userID)
	}
	return []*dto.ProjectResponse{}, nil
}

func (m *MockProjectService) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, projectID, userID)
	}
	return &dto.ProjectDetailResponse{ProjectResponse: dto.ProjectResponse{ID: projectID}}, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, projectID, userID, req)
	}
	return &dto.ProjectResponse{ID: projectID}, nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, projectID, userID)
	}
	return nil
}

func (m *MockProjectService) InviteMember(ctx context.Context, projectID, userID uuid.UUID, req *dto.InviteMemberRequest) (*dto.ProjectMemberResponse, error) {
	if m.InviteMemberFunc != nil {
		return m.InviteMemberFunc(ctx, projectID, userID, req)
	}
	return &dto.ProjectMemberResponse{ProjectID: projectID, UserID: req.UserID}, nil
}

type MockTaskService struct {
	CreateTaskFunc func(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTaskFunc    func(ctx context.Context, projectID, taskID, userID uuid.UUID) (*dto.TaskDetailResponse, error)
	ListTasksFunc  func(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.TaskResponse, error)
	UpdateTaskFunc func(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	MoveTaskFunc   func(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error)
	DeleteTaskFunc func(ctx context.Context, projectID, taskID, userID uuid.UUID) error
}

func (m *MockTaskService) CreateTask(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, projectID, userID, req)
	}
	return &dto.TaskResponse{ID: uuid.New(), ProjectID: projectID, StatusID: req.StatusID, Title: req.Title}, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, projectID, taskID, userID uuid.UUID) (*dto.TaskDetailResponse, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, projectID, taskID, userID)
	}
	return &dto.TaskDetailResponse{TaskResponse: dto.TaskResponse{ID: taskID, ProjectID: projectID}}, nil
}

func (m *MockTaskService) ListTasks(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.TaskResponse, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, projectID, userID)
	}
	return []*dto.TaskResponse{}, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, projectID, taskID, userID, req)
	}
	return &dto.TaskResponse{ID: taskID, ProjectID: projectID}, nil
}

func (m *MockTaskService) MoveTask(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error) {
	if m.MoveTaskFunc != nil {
		return m.MoveTaskFunc(ctx, projectID, taskID, userID, req)
	}
	return &dto.TaskResponse{ID: taskID, ProjectID: projectID, StatusID: req.StatusID}, nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, projectID, taskID, userID uuid.UUID) error {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, projectID, taskID, userID)
	}
	return nil
}

type MockStatusService struct {
	CreateStatusFunc    func(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error)
	ListStatusesFunc    func(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.StatusResponse, error)
	UpdateStatusFunc    func(ctx context.Context, projectID, statusID, userID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error)
	ReorderStatusesFunc func(ctx context.Context, projectID, userID uuid.UUID, orderedIDs []uuid.UUID) error
	DeleteStatusFunc    func(ctx context.Context, projectID, statusID, userID uuid.UUID) error
}

func (m *MockStatusService) CreateStatus(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error) {
	if m.CreateStatusFunc != nil {
		return m.CreateStatusFunc(ctx, projectID, userID, req)
	}
	return &dto.StatusResponse{ID: uuid.New(), ProjectID: projectID, Name: req.Name}, nil
}

func (m *MockStatusService) ListStatuses(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.StatusResponse, error) {
	if m.ListStatusesFunc != nil {
		return m.ListStatusesFunc(ctx, projectID, userID)
	}
	return []*dto.StatusResponse{}, nil
}

func (m *MockStatusService) UpdateStatus(ctx context.Context, projectID, statusID, userID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, projectID, statusID, userID, req)
	}
	return &dto.StatusResponse{ID: statusID, ProjectID: projectID}, nil
}

func (m *MockStatusService) ReorderStatuses(ctx context.Context, projectID, userID uuid.UUID, orderedIDs []uuid.UUID) error {
	if m.ReorderStatusesFunc != nil {
		return m.ReorderStatusesFunc(ctx, projectID, userID, orderedIDs)
	}
	return nil
}

func (m *MockStatusService) DeleteStatus(ctx context.Context, projectID, statusID, userID uuid.UUID) error {
	if m.DeleteStatusFunc != nil {
		return m.DeleteStatusFunc(ctx, projectID, statusID, userID)
	}
	return nil
}

// MockProjectRepository covers the membership lookups handlers do directly
type MockProjectRepository struct {
	FindMemberFunc func(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *MockProjectRepository) FindByIDWithBoard(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *MockProjectRepository) FindByMemberID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *MockProjectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	return nil
}

func (m *MockProjectRepository) FindMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	if m.FindMemberFunc != nil {
		return m.FindMemberFunc(ctx, projectID, userID)
	}
	return &domain.ProjectMember{ProjectID: projectID, UserID: userID}, nil
}

func (m *MockProjectRepository) CountTasks(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *MockProjectRepository) CountStatuses(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return 0, nil
}
