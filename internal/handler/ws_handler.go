package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-sync-api/internal/middleware"
	"project-sync-api/internal/realtime"
	"project-sync-api/internal/repository"
	"project-sync-api/internal/response"
)

// WSHandler upgrades project channel subscriptions to WebSocket connections
type WSHandler struct {
	hub         *realtime.Hub
	projectRepo repository.ProjectRepository
	jwtSecret   string
	logger      *zap.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *realtime.Hub, projectRepo repository.ProjectRepository, jwtSecret string, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:         hub,
		projectRepo: projectRepo,
		jwtSecret:   jwtSecret,
		logger:      logger,
	}
}

// ServeWS authenticates the subscriber, checks project membership and hands
// the connection to the hub. Browsers cannot set headers on WebSocket dials,
// so the JWT arrives as a query parameter.
func (h *WSHandler) ServeWS(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId", "project ID")
	if !ok {
		return
	}

	token := c.Query("token")
	if token == "" {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Token is required")
		return
	}

	userID, err := middleware.ParseToken(h.jwtSecret, token)
	if err != nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
		return
	}

	if _, err := h.projectRepo.FindMember(c.Request.Context(), projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Not a member of this project")
			return
		}
		handleServiceError(c, err)
		return
	}

	conn, err := realtime.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err))
		return
	}

	client := realtime.NewClient(h.hub, conn, projectID, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.SubscribeProject()
	go client.ReadPump()
}
