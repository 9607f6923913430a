package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-sync-api/internal/dto"
	"project-sync-api/internal/response"
)

func setupTaskRouter(svc *MockTaskService, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	h := NewTaskHandler(svc)
	g := r.Group("/api", fakeAuth(userID))
	g.POST("/projects/:projectId/tasks", h.CreateTask)
	g.GET("/projects/:projectId/tasks", h.ListTasks)
	g.GET("/projects/:projectId/tasks/:taskId", h.GetTask)
	g.PUT("/projects/:projectId/tasks/:taskId", h.UpdateTask)
	g.PUT("/projects/:projectId/tasks/:taskId/move", h.MoveTask)
	g.DELETE("/projects/:projectId/tasks/:taskId", h.DeleteTask)
	return r
}

func TestCreateTask_Returns201(t *testing.T) {
	statusID := uuid.New()
	r := setupTaskRouter(&MockTaskService{}, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/projects/"+uuid.NewString()+"/tasks",
		dto.CreateTaskRequest{Title: "Ship the release", StatusID: statusID})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateTask_MissingTitleRejected(t *testing.T) {
	r := setupTaskRouter(&MockTaskService{}, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/projects/"+uuid.NewString()+"/tasks",
		map[string]string{"statusId": uuid.NewString()})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_BadPriorityRejectedByBinding(t *testing.T) {
	r := setupTaskRouter(&MockTaskService{}, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/projects/"+uuid.NewString()+"/tasks",
		map[string]string{"title": "t", "statusId": uuid.NewString(), "priority": "asap"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMoveTask_PassesRequestThrough(t *testing.T) {
	projectID := uuid.New()
	taskID := uuid.New()
	targetStatus := uuid.New()
	var gotReq *dto.MoveTaskRequest

	svc := &MockTaskService{
		MoveTaskFunc: func(ctx context.Context, pID, tID, userID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error) {
			require.Equal(t, projectID, pID)
			require.Equal(t, taskID, tID)
			gotReq = req
			return &dto.TaskResponse{ID: tID, ProjectID: pID, StatusID: req.StatusID}, nil
		},
	}
	r := setupTaskRouter(svc, uuid.New())

	order := 2
	w := doJSON(t, r, http.MethodPut,
		"/api/projects/"+projectID.String()+"/tasks/"+taskID.String()+"/move",
		dto.MoveTaskRequest{StatusID: targetStatus, Order: &order})

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotReq)
	assert.Equal(t, targetStatus, gotReq.StatusID)
	require.NotNil(t, gotReq.Order)
	assert.Equal(t, 2, *gotReq.Order)
}

func TestMoveTask_ValidationErrorMapsTo400(t *testing.T) {
	svc := &MockTaskService{
		MoveTaskFunc: func(ctx context.Context, pID, tID, userID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error) {
			return nil, response.NewAppError(response.ErrCodeValidation, "Status does not belong to this project", "")
		},
	}
	r := setupTaskRouter(svc, uuid.New())

	w := doJSON(t, r, http.MethodPut,
		"/api/projects/"+uuid.NewString()+"/tasks/"+uuid.NewString()+"/move",
		dto.MoveTaskRequest{StatusID: uuid.New()})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTask_NotFoundMapsTo404(t *testing.T) {
	svc := &MockTaskService{
		DeleteTaskFunc: func(ctx context.Context, pID, tID, userID uuid.UUID) error {
			return response.NewAppError(response.ErrCodeNotFound, "Task not found", "")
		},
	}
	r := setupTaskRouter(svc, uuid.New())

	w := doJSON(t, r, http.MethodDelete,
		"/api/projects/"+uuid.NewString()+"/tasks/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
