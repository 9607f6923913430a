package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-sync-api/internal/dto"
	"project-sync-api/internal/realtime"
	"project-sync-api/internal/repository"
	"project-sync-api/internal/response"
)

// TriggerHandler lets authenticated clients fan an event out to a project
// channel. The caller's socket ID, when sent, is excluded from delivery so
// the sender does not receive its own event back.
type TriggerHandler struct {
	relay       *realtime.Relay
	projectRepo repository.ProjectRepository
}

// NewTriggerHandler creates a new TriggerHandler
func NewTriggerHandler(relay *realtime.Relay, projectRepo repository.ProjectRepository) *TriggerHandler {
	return &TriggerHandler{
		relay:       relay,
		projectRepo: projectRepo,
	}
}

// Trigger publishes an event to a project channel
func (h *TriggerHandler) Trigger(c *gin.Context) {
	var req dto.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	projectID, err := parseProjectChannel(req.Channel)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid channel name")
		return
	}

	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	if _, err := h.projectRepo.FindMember(c.Request.Context(), projectID, auth.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Not a member of this project")
			return
		}
		handleServiceError(c, err)
		return
	}

	socketID := c.GetHeader("X-Socket-ID")
	h.relay.PublishFrom(projectID, req.Event, req.Data, socketID)

	response.SendSuccess(c, http.StatusOK, map[string]string{"message": "Event triggered"})
}

// parseProjectChannel extracts the project ID from a "project:<uuid>" channel name
func parseProjectChannel(channel string) (uuid.UUID, error) {
	name, ok := strings.CutPrefix(channel, "project:")
	if !ok {
		return uuid.Nil, errors.New("unknown channel namespace")
	}
	return uuid.Parse(name)
}
