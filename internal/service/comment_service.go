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

// CommentService defines the interface for comment business logic
type CommentService interface {
	CreateComment(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, projectID, taskID, userID uuid.UUID) ([]*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, projectID, commentID, userID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, projectID, commentID, userID uuid.UUID) error
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	publisher   EventPublisher
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(commentRepo repository.CommentRepository, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, publisher EventPublisher, logger *zap.Logger) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateComment adds a comment to a task. Comment activity surfaces on the
// board as a task update so cards can refresh their comment count.
func (s *commentServiceImpl) CreateComment(ctx context.Context, projectID, taskID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if _, err := s.findProjectTask(ctx, projectID, taskID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TaskID:  taskID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	resp := toCommentResponse(comment)
	s.publisher.Publish(projectID, EventTaskUpdated, map[string]interface{}{
		"taskId":    taskID,
		"projectId": projectID,
	})
	return &resp, nil
}

// ListComments returns a task's comments oldest first
func (s *commentServiceImpl) ListComments(ctx context.Context, projectID, taskID, userID uuid.UUID) ([]*dto.CommentResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	if _, err := s.findProjectTask(ctx, projectID, taskID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}

	responses := make([]*dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp := toCommentResponse(c)
		responses = append(responses, &resp)
	}
	return responses, nil
}

// UpdateComment edits a comment. Author only.
func (s *commentServiceImpl) UpdateComment(ctx context.Context, projectID, commentID, userID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return nil, err
	}
	comment, err := s.findProjectComment(ctx, projectID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the comment author can edit it", "")
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update comment", err.Error())
	}

	resp := toCommentResponse(comment)
	return &resp, nil
}

// DeleteComment removes a comment. Author only.
func (s *commentServiceImpl) DeleteComment(ctx context.Context, projectID, commentID, userID uuid.UUID) error {
	if err := s.requireMember(ctx, projectID, userID); err != nil {
		return err
	}
	comment, err := s.findProjectComment(ctx, projectID, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "Only the comment author can delete it", "")
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}

	s.publisher.Publish(projectID, EventTaskUpdated, map[string]interface{}{
		"taskId":    comment.TaskID,
		"projectId": projectID,
	})
	return nil
}

// requireMember verifies the caller belongs to the project
func (s *commentServiceImpl) requireMember(ctx context.Context, projectID, userID uuid.UUID) error {
	_, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeForbidden, "You are not a member of this project", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to verify membership", err.Error())
	}
	return nil
}

// findProjectTask loads a task and checks it belongs to the project
func (s *commentServiceImpl) findProjectTask(ctx context.Context, projectID, taskID uuid.UUID) (*domain.Task, error) {
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

// findProjectComment loads a comment and checks its task belongs to the project
func (s *commentServiceImpl) findProjectComment(ctx context.Context, projectID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to get comment", err.Error())
	}
	if _, err := s.findProjectTask(ctx, projectID, comment.TaskID); err != nil {
		return nil, err
	}
	return comment, nil
}

func toCommentResponse(c *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		CommentID: c.ID,
		TaskID:    c.TaskID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
