package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskManager/internal/handlers"
	"taskManager/internal/models/task"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/service"
	"taskManager/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockHealthChecker - мок проверки здоровья
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newServer(t *testing.T, health handlers.HealthChecker) http.Handler {
	t.Helper()
	storage := inmemory.NewTaskStorage(inmemory.WithSampleTasks())
	svc := service.NewTaskService(storage)
	if health == nil {
		health = svc
	}
	h := handlers.NewToolHandler(tools.NewRegistry(svc), health)
	return handlers.NewRouter(h, handlers.RouterConfig{})
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) tools.Result {
	t.Helper()
	var res tools.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	return res
}

// TestToolHandler_HealthCheck тестирует /health
func TestToolHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockHealthChecker)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockHealthChecker) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockHealthChecker) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("down"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := new(MockHealthChecker)
			tt.setupMock(health)

			w := do(t, newServer(t, health), http.MethodGet, "/health", "")
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			health.AssertExpectations(t)
		})
	}
}

// TestToolHandler_ListTools тестирует GET /tools
func TestToolHandler_ListTools(t *testing.T) {
	w := do(t, newServer(t, nil), http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		Tools []tools.Definition `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	assert.Len(t, payload.Tools, 5)
	assert.Equal(t, tools.ToolCreateTask, payload.Tools[0].Name)
}

// TestToolHandler_CallTool тестирует POST /tools/{name}
func TestToolHandler_CallTool(t *testing.T) {
	tests := []struct {
		name           string
		tool           string
		body           string
		contentType    string
		expectedStatus int
		expectIsError  bool
		expectText     string
	}{
		{
			name:           "success - create task",
			tool:           tools.ToolCreateTask,
			body:           `{"title": "Write release notes", "description": "x", "priority": "low"}`,
			expectedStatus: http.StatusOK,
			expectText:     "✅ Created task \"Write release notes\" (ID: task-3)",
		},
		{
			name:           "success - stats with empty body",
			tool:           tools.ToolGetTaskStats,
			expectedStatus: http.StatusOK,
			expectText:     "📋 Total Tasks: 2",
		},
		{
			name:           "validation error - missing description",
			tool:           tools.ToolCreateTask,
			body:           `{"title": "t"}`,
			expectedStatus: http.StatusOK,
			expectIsError:  true,
			expectText:     "Description is required",
		},
		{
			name:           "not found - update unknown task",
			tool:           tools.ToolUpdateTaskStatus,
			body:           `{"taskId": "task-99", "status": "completed"}`,
			expectedStatus: http.StatusOK,
			expectIsError:  true,
			expectText:     "❌ Task \"task-99\" not found.",
		},
		{
			name:           "error - unknown tool",
			tool:           "archive_task",
			body:           `{}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "error - invalid JSON",
			tool:           tools.ToolListTasks,
			body:           `{"status":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - JSON array instead of object",
			tool:           tools.ToolListTasks,
			body:           `["todo"]`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid content type",
			tool:           tools.ToolListTasks,
			body:           `{}`,
			contentType:    "text/plain",
			expectedStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/tools/"+tt.tool, strings.NewReader(tt.body))
			if tt.body != "" {
				ct := tt.contentType
				if ct == "" {
					ct = "application/json; charset=utf-8"
				}
				req.Header.Set("Content-Type", ct)
			}
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}
			res := decodeResult(t, w)
			assert.Equal(t, tt.expectIsError, res.IsError)
			assert.Contains(t, res.Text(), tt.expectText)
		})
	}
}

// TestToolHandler_Scenario тестирует сквозной сценарий через HTTP
func TestToolHandler_Scenario(t *testing.T) {
	srv := newServer(t, nil)

	w := do(t, srv, http.MethodPost, "/tools/"+tools.ToolDeleteTask, `{"taskId": "task-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeResult(t, w).IsError)

	w = do(t, srv, http.MethodPost, "/tools/"+tools.ToolUpdateTaskStatus, `{"taskId": "task-2", "status": "completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "✅ Updated \"Write API documentation\" to completed", decodeResult(t, w).Text())

	w = do(t, srv, http.MethodPost, "/tools/"+tools.ToolListTasks, `{"status": "completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Data struct {
			Tasks []task.Task `json:"tasks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	require.Len(t, listed.Data.Tasks, 1)
	assert.Equal(t, "task-2", listed.Data.Tasks[0].ID)
	assert.Equal(t, task.StatusCompleted, listed.Data.Tasks[0].Status)
}

// TestToolHandler_Resources тестирует список и чтение ресурсов
func TestToolHandler_Resources(t *testing.T) {
	srv := newServer(t, nil)

	w := do(t, srv, http.MethodGet, "/resources", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), tools.SummaryURI)

	w = do(t, srv, http.MethodGet, "/resources/read?uri=tasks://summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		Contents []tools.ResourceContents `json:"contents"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	require.Len(t, payload.Contents, 1)

	var summary task.Summary
	require.NoError(t, json.Unmarshal([]byte(payload.Contents[0].Text), &summary))
	assert.Equal(t, 2, summary.Statistics.Total)

	w = do(t, srv, http.MethodGet, "/resources/read?uri=tasks://other", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/resources/read", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
