package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"project-sync-api/internal/domain"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	CreateFunc            func(ctx context.Context, project *domain.Project) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByIDWithBoardFunc func(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindByMemberIDFunc    func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	UpdateFunc            func(ctx context.Context, project *domain.Project) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	AddMemberFunc         func(ctx context.Context, member *domain.ProjectMember) error
	FindMemberFunc        func(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	CountTasksFunc        func(ctx context.Context, projectID uuid.UUID) (int64, error)
	CountStatusesFunc     func(ctx context.Context, projectID uuid.UUID) (int64, error)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindByIDWithBoard(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if m.FindByIDWithBoardFunc != nil {
		return m.FindByIDWithBoardFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProjectRepository) FindByMemberID(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	if m.FindByMemberIDFunc != nil {
		return m.FindByMemberIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, project)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockProjectRepository) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, member)
	}
	return nil
}

func (m *MockProjectRepository) FindMember(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	if m.FindMemberFunc != nil {
		return m.FindMemberFunc(ctx, projectID, userID)
	}
	return &domain.ProjectMember{ProjectID: projectID, UserID: userID}, nil
}

func (m *MockProjectRepository) CountTasks(ctx context.Context, projectID uuid.UUID) (int64, error) {
	if m.CountTasksFunc != nil {
		return m.CountTasksFunc(ctx, projectID)
	}
	return 0, nil
}

func (m *MockProjectRepository) CountStatuses(ctx context.Context, projectID uuid.UUID) (int64, error) {
	if m.CountStatusesFunc != nil {
		return m.CountStatusesFunc(ctx, projectID)
	}
	return 0, nil
}

// MockStatusRepository is a mock implementation of StatusRepository
type MockStatusRepository struct {
	CreateFunc          func(ctx context.Context, status *domain.Status) error
	CreateBatchFunc     func(ctx context.Context, statuses []*domain.Status) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Status, error)
	FindByProjectIDFunc func(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error)
	FindAllIDsFunc      func(ctx context.Context) ([]uuid.UUID, error)
	UpdateFunc          func(ctx context.Context, status *domain.Status) error
	UpdateOrderFunc     func(ctx context.Context, id uuid.UUID, order int) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	MaxOrderFunc        func(ctx context.Context, projectID uuid.UUID) (int, error)
}

func (m *MockStatusRepository) Create(ctx context.Context, status *domain.Status) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, status)
	}
	return nil
}

func (m *MockStatusRepository) CreateBatch(ctx context.Context, statuses []*domain.Status) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, statuses)
	}
	return nil
}

func (m *MockStatusRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Status, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockStatusRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockStatusRepository) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	if m.FindAllIDsFunc != nil {
		return m.FindAllIDsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStatusRepository) Update(ctx context.Context, status *domain.Status) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, status)
	}
	return nil
}

func (m *MockStatusRepository) UpdateOrder(ctx context.Context, id uuid.UUID, order int) error {
	if m.UpdateOrderFunc != nil {
		return m.UpdateOrderFunc(ctx, id, order)
	}
	return nil
}

func (m *MockStatusRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStatusRepository) MaxOrder(ctx context.Context, projectID uuid.UUID) (int, error) {
	if m.MaxOrderFunc != nil {
		return m.MaxOrderFunc(ctx, projectID)
	}
	return -1, nil
}

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	CreateFunc               func(ctx context.Context, task *domain.Task) error
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByIDWithDetailFunc   func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	FindByProjectIDFunc      func(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	FindByStatusIDFunc       func(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error)
	UpdateFunc               func(ctx context.Context, task *domain.Task) error
	UpdateOrderFunc          func(ctx context.Context, id uuid.UUID, order int) error
	UpdateStatusAndOrderFunc func(ctx context.Context, id, statusID uuid.UUID, order int) error
	DeleteFunc               func(ctx context.Context, id uuid.UUID) error
	MaxOrderFunc             func(ctx context.Context, statusID uuid.UUID) (int, error)
	CountCommentsFunc        func(ctx context.Context, taskID uuid.UUID) (int64, error)
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByIDWithDetail(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.FindByIDWithDetailFunc != nil {
		return m.FindByIDWithDetailFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByProjectIDFunc != nil {
		return m.FindByProjectIDFunc(ctx, projectID)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByStatusID(ctx context.Context, statusID uuid.UUID) ([]*domain.Task, error) {
	if m.FindByStatusIDFunc != nil {
		return m.FindByStatusIDFunc(ctx, statusID)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, task)
	}
	return nil
}

func (m *MockTaskRepository) UpdateOrder(ctx context.Context, id uuid.UUID, order int) error {
	if m.UpdateOrderFunc != nil {
		return m.UpdateOrderFunc(ctx, id, order)
	}
	return nil
}

func (m *MockTaskRepository) UpdateStatusAndOrder(ctx context.Context, id, statusID uuid.UUID, order int) error {
	if m.UpdateStatusAndOrderFunc != nil {
		return m.UpdateStatusAndOrderFunc(ctx, id, statusID, order)
	}
	return nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) MaxOrder(ctx context.Context, statusID uuid.UUID) (int, error) {
	if m.MaxOrderFunc != nil {
		return m.MaxOrderFunc(ctx, statusID)
	}
	return -1, nil
}

func (m *MockTaskRepository) CountComments(ctx context.Context, taskID uuid.UUID) (int64, error) {
	if m.CountCommentsFunc != nil {
		return m.CountCommentsFunc(ctx, taskID)
	}
	return 0, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc       func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByTaskIDFunc func(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)
	UpdateFunc       func(ctx context.Context, comment *domain.Comment) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindByTaskID(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByTaskIDFunc != nil {
		return m.FindByTaskIDFunc(ctx, taskID)
	}
	return nil, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// recordedEvent is one Publish call captured by RecordingPublisher
type recordedEvent struct {
	ProjectID uuid.UUID
	Event     string
	Data      interface{}
}

// RecordingPublisher captures published events for assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *RecordingPublisher) Publish(projectID uuid.UUID, event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{ProjectID: projectID, Event: event, Data: data})
}

// Events returns a copy of everything published so far
func (p *RecordingPublisher) Events() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]recordedEvent, len(p.events))
	copy(out, p.events)
	return out
}
