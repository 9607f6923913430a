package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-sync-api/internal/domain"
	"project-sync-api/internal/dto"
	"project-sync-api/internal/realtime"
)

func setupTriggerRouter(repo *MockProjectRepository, hub *realtime.Hub, userID uuid.UUID) *gin.Engine {
	relay := realtime.NewRelay(hub, nil, zap.NewNop())
	r := gin.New()
	h := NewTriggerHandler(relay, repo)
	g := r.Group("/api", fakeAuth(userID))
	g.POST("/realtime/trigger", h.Trigger)
	return r
}

func newRunningHub() *realtime.Hub {
	hub := realtime.NewHub(nil, zap.NewNop())
	go hub.Run()
	return hub
}

func TestTrigger_PublishesToChannel(t *testing.T) {
	r := setupTriggerRouter(&MockProjectRepository{}, newRunningHub(), uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/realtime/trigger", dto.TriggerRequest{
		Channel: "project:" + uuid.NewString(),
		Event:   "task-updated",
		Data:    map[string]interface{}{"taskId": uuid.NewString()},
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTrigger_RejectsUnknownChannelNamespace(t *testing.T) {
	r := setupTriggerRouter(&MockProjectRepository{}, newRunningHub(), uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/realtime/trigger", dto.TriggerRequest{
		Channel: "user:" + uuid.NewString(),
		Event:   "task-updated",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrigger_RejectsMalformedChannelID(t *testing.T) {
	r := setupTriggerRouter(&MockProjectRepository{}, newRunningHub(), uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/realtime/trigger", dto.TriggerRequest{
		Channel: "project:not-a-uuid",
		Event:   "task-updated",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrigger_NonMemberForbidden(t *testing.T) {
	repo := &MockProjectRepository{
		FindMemberFunc: func(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	r := setupTriggerRouter(repo, newRunningHub(), uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/realtime/trigger", dto.TriggerRequest{
		Channel: "project:" + uuid.NewString(),
		Event:   "task-updated",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTrigger_ChecksMembershipOfChannelProject(t *testing.T) {
	projectID := uuid.New()
	var checked uuid.UUID
	repo := &MockProjectRepository{
		FindMemberFunc: func(ctx context.Context, pID, userID uuid.UUID) (*domain.ProjectMember, error) {
			checked = pID
			return &domain.ProjectMember{ProjectID: pID, UserID: userID}, nil
		},
	}
	r := setupTriggerRouter(repo, newRunningHub(), uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/realtime/trigger", dto.TriggerRequest{
		Channel: "project:" + projectID.String(),
		Event:   "status-created",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, projectID, checked)
}
