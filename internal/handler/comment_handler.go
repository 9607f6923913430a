package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-sync-api/internal/dto"
	"project-sync-api/internal/response"
	"project-sync-api/internal/service"
)

// CommentHandler handles task comment endpoints
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment adds a comment to a task
func (h *CommentHandler) CreateComment(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "task ID")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), projectID, taskID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// ListComments returns a task's comments oldest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "task ID")
	if !ok {
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), projectID, taskID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comments)
}

// UpdateComment edits a comment. Author only.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), projectID, commentID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// DeleteComment removes a comment. Author only.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), projectID, commentID, auth.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}
