package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-sync-api/internal/dto"
	"project-sync-api/internal/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupProjectRouter(svc *MockProjectService, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	h := NewProjectHandler(svc)
	g := r.Group("/api", fakeAuth(userID))
	g.POST("/projects", h.CreateProject)
	g.GET("/projects", h.ListProjects)
	g.GET("/projects/:projectId", h.GetProject)
	g.PUT("/projects/:projectId", h.UpdateProject)
	g.DELETE("/projects/:projectId", h.DeleteProject)
	g.POST("/projects/:projectId/members", h.InviteMember)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProject_Returns201(t *testing.T) {
	userID := uuid.New()
	r := setupProjectRouter(&MockProjectService{}, userID)

	w := doJSON(t, r, http.MethodPost, "/api/projects", dto.CreateProjectRequest{Name: "Launch plan"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data dto.ProjectResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Launch plan", envelope.Data.Name)
	assert.Equal(t, userID, envelope.Data.OwnerID)
}

func TestCreateProject_ShortNameRejected(t *testing.T) {
	r := setupProjectRouter(&MockProjectService{}, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/projects", map[string]string{"name": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProject_InvalidUUID(t *testing.T) {
	r := setupProjectRouter(&MockProjectService{}, uuid.New())

	w := doJSON(t, r, http.MethodGet, "/api/projects/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, response.ErrCodeValidation, errResp.Error.Code)
}

func TestGetProject_ForbiddenMapsTo403(t *testing.T) {
	svc := &MockProjectService{
		GetProjectFunc: func(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error) {
			return nil, response.NewAppError(response.ErrCodeForbidden, "Not a member of this project", "")
		},
	}
	r := setupProjectRouter(svc, uuid.New())

	w := doJSON(t, r, http.MethodGet, "/api/projects/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetProject_NotFoundMapsTo404(t *testing.T) {
	svc := &MockProjectService{
		GetProjectFunc: func(ctx context.Context, projectID, userID uuid.UUID) (*dto.ProjectDetailResponse, error) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Project not found", "")
		},
	}
	r := setupProjectRouter(svc, uuid.New())

	w := doJSON(t, r, http.MethodGet, "/api/projects/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInviteMember_DuplicateMapsTo409(t *testing.T) {
	svc := &MockProjectService{
		InviteMemberFunc: func(ctx context.Context, projectID, userID uuid.UUID, req *dto.InviteMemberRequest) (*dto.ProjectMemberResponse, error) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "User is already a member", "")
		},
	}
	r := setupProjectRouter(svc, uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/projects/"+uuid.NewString()+"/members",
		dto.InviteMemberRequest{UserID: uuid.New()})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteProject_Success(t *testing.T) {
	deleted := false
	svc := &MockProjectService{
		DeleteProjectFunc: func(ctx context.Context, projectID, userID uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	r := setupProjectRouter(svc, uuid.New())

	w := doJSON(t, r, http.MethodDelete, "/api/projects/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, deleted)
}

func TestProjectEndpoints_MissingAuthContext(t *testing.T) {
	// no fakeAuth middleware installed
	r := gin.New()
	h := NewProjectHandler(&MockProjectService{})
	r.GET("/api/projects", h.ListProjects)

	w := doJSON(t, r, http.MethodGet, "/api/projects", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
