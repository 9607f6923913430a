package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-sync-api/internal/dto"
	"project-sync-api/internal/metrics"
	"project-sync-api/internal/response"
	"project-sync-api/internal/sync"
)

// APIClient talks to the project API over HTTP and implements the sync
// package's Store interface. Simulators and out-of-process consumers use it
// to drive the same board mutations the web client does.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

var _ sync.Store = (*APIClient)(nil)

// NewAPIClient creates an API client authenticated with the given bearer token
func NewAPIClient(baseURL, token string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// do issues one request and returns the raw response body. Non-2xx responses
// are decoded into the API's error envelope and surfaced as *response.AppError
// so callers can branch on the error code.
func (c *APIClient) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, method, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	var errResp response.ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error.Code != "" {
		return nil, response.NewAppError(errResp.Error.Code, errResp.Error.Message, "")
	}
	return nil, response.NewAppError(response.ErrCodeInternal,
		fmt.Sprintf("unexpected status %d", resp.StatusCode), "")
}

// FetchBoard loads a project's full board state
func (c *APIClient) FetchBoard(ctx context.Context, projectID uuid.UUID) (*sync.Board, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%s", projectID), nil)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data dto.ProjectDetailResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode board: %w", err)
	}
	return &sync.Board{
		ProjectID: envelope.Data.ID,
		Statuses:  envelope.Data.Statuses,
		Tasks:     envelope.Data.Tasks,
	}, nil
}

// CreateTask creates a task in the project
func (c *APIClient) CreateTask(ctx context.Context, projectID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%s/tasks", projectID), req)
	if err != nil {
		return nil, err
	}
	return decodeTask(raw)
}

// UpdateTask updates a task's fields
func (c *APIClient) UpdateTask(ctx context.Context, projectID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/projects/%s/tasks/%s", projectID, taskID), req)
	if err != nil {
		return nil, err
	}
	return decodeTask(raw)
}

// MoveTask repositions a task within or across columns
func (c *APIClient) MoveTask(ctx context.Context, projectID, taskID uuid.UUID, req *dto.MoveTaskRequest) (*dto.TaskResponse, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/projects/%s/tasks/%s/move", projectID, taskID), req)
	if err != nil {
		return nil, err
	}
	return decodeTask(raw)
}

// DeleteTask removes a task
func (c *APIClient) DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%s/tasks/%s", projectID, taskID), nil)
	return err
}

// CreateStatus creates a status column in the project
func (c *APIClient) CreateStatus(ctx context.Context, projectID uuid.UUID, req *dto.CreateStatusRequest) (*dto.StatusResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%s/statuses", projectID), req)
	if err != nil {
		return nil, err
	}
	return decodeStatus(raw)
}

// UpdateStatus updates a status column
func (c *APIClient) UpdateStatus(ctx context.Context, projectID, statusID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.StatusResponse, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/projects/%s/statuses/%s", projectID, statusID), req)
	if err != nil {
		return nil, err
	}
	return decodeStatus(raw)
}

// DeleteStatus removes a status column and its tasks
func (c *APIClient) DeleteStatus(ctx context.Context, projectID, statusID uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%s/statuses/%s", projectID, statusID), nil)
	return err
}

func decodeTask(raw []byte) (*dto.TaskResponse, error) {
	var envelope struct {
		Data dto.TaskResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &envelope.Data, nil
}

func decodeStatus(raw []byte) (*dto.StatusResponse, error) {
	var envelope struct {
		Data dto.StatusResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &envelope.Data, nil
}
