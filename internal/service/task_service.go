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

// TaskService defines the interface for task business logic
type TaskService interface {
	CreateTask(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetTask(ctx context.Context, projectID, taskID, userID uuid.UUID) (*dto.TaskDetailResponse, error)
	ListTasks(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.TaskResponse, error)
	UpdateTask(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	MoveTask(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error)
	DeleteTask(ctx context.Context, projectID, taskID, userID uuid.UUID) error
}

// taskServiceImpl is the implementation of TaskService
type taskServiceImpl struct {
	taskRepo    repository.TaskRepository
	statusRepo  repository.StatusRepository
	projectRepo repository.ProjectRepository
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewTaskService creates a new instance of TaskService
func NewTaskService(taskRepo repository.TaskRepository, statusRepo repository.StatusRepository, projectRepo repository.ProjectRepository, publisher EventPublisher, m *metrics.Metrics, logger *zap.Logger) TaskService {
	return &taskServiceImpl{
		taskRepo:    taskRepo,
		statusRepo:  statusRepo,
		projectRepo: projectRepo,
		publisher:   publisher,
		metrics:     m,
		logger:      logger,
	}
}

// CreateTask creates a task at the bottom of its column
func (s *taskServiceImpl) CreateTask(ctx context.Context, projectID, userID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if _, err := s.findProjectStatus(ctx, projectID, req.StatusID); err != nil {
		return nil, err
	}
	if req.AssigneeID != nil {
		if err := s.requireAssigneeMember(ctx, projectID, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	maxOrder, err := s.taskRepo.MaxOrder(ctx, req.StatusID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to determine task position", err.Error())
	}

	task := &domain.Task{
		ProjectID:   projectID,
		StatusID:    req.StatusID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.TaskPriority(req.Priority),
		Order:       maxOrder + 1,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		ImageURL:    req.ImageURL,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create task", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementTaskCreated()
	}
	created, err := s.taskRepo.FindByID(ctx, task.ID)
	if err != nil || created == nil {
		created = task
	}
	resp := toTaskResponse(created, 0)
	s.publisher.Publish(projectID, EventTaskCreated, map[string]interface{}{
		"taskId":    created.ID,
		"projectId": projectID,
	})
	return &resp, nil
}

// GetTask returns a task with its comment thread
func (s *taskServiceImpl) GetTask(ctx context.Context, projectID, taskID, userID uuid.UUID) (*dto.TaskDetailResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	task, err := s.taskRepo.FindByIDWithDetail(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get task", err.Error())
	}
	if task.ProjectID != projectID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found in this project", "")
	}

	detail := &dto.TaskDetailResponse{
		TaskResponse: toTaskResponse(task, int64(len(task.Comments))),
		Comments:     make([]dto.CommentResponse, 0, len(task.Comments)),
	}
	for i := range task.Comments {
		detail.Comments = append(detail.Comments, toCommentResponse(&task.Comments[i]))
	}
	return detail, nil
}

// ListTasks returns every task in a project ordered by column position
func (s *taskServiceImpl) ListTasks(ctx context.Context, projectID, userID uuid.UUID) ([]*dto.TaskResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list tasks", err.Error())
	}

	responses := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		count, err := s.taskRepo.CountComments(ctx, t.ID)
		if err != nil {
			count = 0
		}
		resp := toTaskResponse(t, count)
		responses = append(responses, &resp)
	}
	return responses, nil
}

// UpdateTask updates a task's fields. A uuid.Nil assignee clears the
// assignment; order and status changes here bypass sibling shifting, which is
// what MoveTask is for.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	task, err := s.findProjectTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.StatusID != nil {
		if _, err := s.findProjectStatus(ctx, projectID, *req.StatusID); err != nil {
			return nil, err
		}
		task.StatusID = *req.StatusID
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == uuid.Nil {
			task.AssigneeID = nil
		} else {
			if err := s.requireAssigneeMember(ctx, projectID, *req.AssigneeID); err != nil {
				return nil, err
			}
			task.AssigneeID = req.AssigneeID
		}
	}
	if req.Priority != nil {
		if !domain.ValidPriority(domain.TaskPriority(*req.Priority)) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Invalid priority", *req.Priority)
		}
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.Order != nil {
		task.Order = *req.Order
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.ImageURL != nil {
		task.ImageURL = *req.ImageURL
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update task", err.Error())
	}

	count, err := s.taskRepo.CountComments(ctx, task.ID)
	if err != nil {
		count = 0
	}
	resp := toTaskResponse(task, count)
	s.publisher.Publish(projectID, EventTaskUpdated, map[string]interface{}{
		"taskId":    task.ID,
		"projectId": projectID,
	})
	return &resp, nil
}

// MoveTask moves a task within its column or to another column. Within a
// column the displaced band of siblings shifts by one to keep positions
// dense. Across columns the target's later siblings shift down when an
// explicit position is given, or the task lands at the bottom when it is not;
// the source column keeps its gaps until the nightly compaction run.
func (s *taskServiceImpl) MoveTask(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	task, err := s.findProjectTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findProjectStatus(ctx, projectID, req.StatusID); err != nil {
		return nil, err
	}

	var plan MovePlan
	if req.StatusID == task.StatusID {
		order := task.Order
		if req.Order != nil {
			order = *req.Order
		}
		siblings, err := s.taskRepo.FindByStatusID(ctx, task.StatusID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load column", err.Error())
		}
		plan = PlanWithinColumnMove(siblings, task.ID, order)
	} else {
		targetSiblings, err := s.taskRepo.FindByStatusID(ctx, req.StatusID)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load column", err.Error())
		}
		plan = PlanCrossColumnMove(targetSiblings, task.ID, req.StatusID, req.Order)
	}

	for _, shift := range plan.Shifts {
		if err := s.taskRepo.UpdateOrder(ctx, shift.ID, shift.Order); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to shift sibling task", err.Error())
		}
	}
	if err := s.taskRepo.UpdateStatusAndOrder(ctx, task.ID, plan.StatusID, plan.Order); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to move task", err.Error())
	}

	task.StatusID = plan.StatusID
	task.Order = plan.Order
	if s.metrics != nil {
		s.metrics.IncrementTasksMoved()
	}
	s.logger.Info("task moved",
		zap.String("task_id", task.ID.String()),
		zap.String("status_id", plan.StatusID.String()),
		zap.Int("order", plan.Order))

	count, err := s.taskRepo.CountComments(ctx, task.ID)
	if err != nil {
		count = 0
	}
	resp := toTaskResponse(task, count)
	s.publisher.Publish(projectID, EventTaskMoved, map[string]interface{}{
		"taskId":    task.ID,
		"projectId": projectID,
	})
	return &resp, nil
}

// DeleteTask deletes a task and its comments. The column is left gapped; the
// compaction job restores density.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, projectID, taskID, userID uuid.UUID) error {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return err
	}
	task, err := s.findProjectTask(ctx, projectID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete task", err.Error())
	}

	s.publisher.Publish(projectID, EventTaskDeleted, map[string]interface{}{
		"taskId":    taskID,
		"projectId": projectID,
	})
	return nil
}

// requireMember verifies the caller belongs to the project
func (s *taskServiceImpl) requireMember(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeForbidden, "You are not a member of this project", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to verify membership", err.Error())
	}
	return nil
}

// requireAssigneeMember verifies a task can only be assigned to a project member
func (s *taskServiceImpl) requireAssigneeMember(ctx context.Context, projectID, assigneeID uuid.UUID) error {
	_, err := s.projectRepo.FindMember(ctx, projectID, assigneeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeValidation, "Assignee is not a member of this project", assigneeID.String())
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to verify assignee membership", err.Error())
	}
	return nil
}

// findProjectTask loads a task and checks it belongs to the project
func (s *taskServiceImpl) findProjectTask(ctx context.Context, projectID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get task", err.Error())
	}
	if task.ProjectID != projectID {
		return nil, response.NewAppError(response.ErrCodeNotFound, "Task not found in this project", "")
	}
	return task, nil
}

// findProjectStatus loads a status and checks it belongs to the project
func (s *taskServiceImpl) findProjectStatus(ctx context.Context, projectID, statusID uuid.UUID) (*domain.Status, error) {
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

func toTaskResponse(t *domain.Task, commentCount int64) dto.TaskResponse {
	resp := dto.TaskResponse{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		StatusID:     t.StatusID,
		AssigneeID:   t.AssigneeID,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     string(t.Priority),
		Order:        t.Order,
		StartDate:    t.StartDate,
		DueDate:      t.DueDate,
		ImageURL:     t.ImageURL,
		CommentCount: commentCount,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.Status.ID != uuid.Nil {
		status := toStatusResponse(&t.Status)
		resp.Status = &status
	}
	return resp
}
