package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-sync-api/internal/dto"
	"project-sync-api/internal/response"
	"project-sync-api/internal/service"
)

// StatusHandler handles status column endpoints
type StatusHandler struct {
	statusService service.StatusService
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(statusService service.StatusService) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

// CreateStatus appends a new column to the project's board
func (h *StatusHandler) CreateStatus(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	var req dto.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	status, err := h.statusService.CreateStatus(c.Request.Context(), projectID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, status)
}

// ListStatuses returns the project's columns in board order
func (h *StatusHandler) ListStatuses(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	statuses, err := h.statusService.ListStatuses(c.Request.Context(), projectID, auth.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, statuses)
}

// UpdateStatus updates a column's name, color, icon or position
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}
	statusID, ok := parseIDParam(c, "statusId", "status ID")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	status, err := h.statusService.UpdateStatus(c.Request.Context(), projectID, statusID, auth.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, status)
}

// ReorderStatuses applies a complete new column ordering
func (h *StatusHandler) ReorderStatuses(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	var req dto.ReorderStatusesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	if err := h.statusService.ReorderStatuses(c.Request.Context(), projectID, auth.UserID, req.StatusIDs); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Statuses reordered successfully"})
}

// DeleteStatus removes a column and the tasks in it
func (h *StatusHandler) DeleteStatus(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}
	statusID, ok := parseIDParam(c, "statusId", "status ID")
	if !ok {
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	if err := h.statusService.DeleteStatus(c.Request.Context(), projectID, statusID, auth.UserID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Status deleted successfully"})
}
