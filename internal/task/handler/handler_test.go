package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	"github.com/planzo/planzo-api/internal/httpx"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
	"github.com/planzo/planzo-api/internal/task/service"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) task(args mock.Arguments) (*taskModel.TaskResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*taskModel.TaskResponse), args.Error(1)
}

func (m *mockService) tasks(args mock.Arguments) ([]taskModel.TaskResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]taskModel.TaskResponse), args.Error(1)
}

func (m *mockService) Create(
	ctx context.Context,
	actorID, projectID string,
	req *taskModel.CreateTaskRequest,
) (*taskModel.TaskResponse, error) {
	return m.task(m.Called(ctx, actorID, projectID, req))
}

func (m *mockService) List(
	ctx context.Context,
	actorID, projectID string,
	filter taskModel.ListFilter,
) ([]taskModel.TaskResponse, error) {
	return m.tasks(m.Called(ctx, actorID, projectID, filter))
}

func (m *mockService) Get(ctx context.Context, actorID, projectID, taskID string) (*taskModel.TaskResponse, error) {
	return m.task(m.Called(ctx, actorID, projectID, taskID))
}

func (m *mockService) Update(
	ctx context.Context,
	actorID, projectID, taskID string,
	req *taskModel.UpdateTaskRequest,
) (*taskModel.TaskResponse, error) {
	return m.task(m.Called(ctx, actorID, projectID, taskID, req))
}

func (m *mockService) Delete(ctx context.Context, actorID, projectID, taskID string) error {
	return m.Called(ctx, actorID, projectID, taskID).Error(0)
}

func (m *mockService) Move(ctx context.Context, actorID, taskID, column string) (*taskModel.TaskResponse, error) {
	return m.task(m.Called(ctx, actorID, taskID, column))
}

func (m *mockService) Board(ctx context.Context, actorID, projectID string) (*taskModel.BoardResponse, error) {
	args := m.Called(ctx, actorID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*taskModel.BoardResponse), args.Error(1)
}

func (m *mockService) Calendar(
	ctx context.Context,
	actorID, projectID string,
	from, to time.Time,
) ([]taskModel.TaskResponse, error) {
	return m.tasks(m.Called(ctx, actorID, projectID, from, to))
}

var _ service.Service = (*mockService)(nil)

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(httpx.ContextUserID, "actor")
		c.Next()
	})
	r.POST("/projects/:projectId/tasks", h.Create)
	r.GET("/projects/:projectId/tasks", h.List)
	r.GET("/projects/:projectId/tasks/:taskId", h.Get)
	r.PATCH("/projects/:projectId/tasks/:taskId", h.Update)
	r.DELETE("/projects/:projectId/tasks/:taskId", h.Delete)
	r.GET("/projects/:projectId/board", h.Board)
	r.GET("/projects/:projectId/calendar", h.Calendar)
	r.PUT("/tasks/:taskId/move", h.Move)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Move(t *testing.T) {
	t.Run("response carries label and column", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
		now := time.Now()
		task := &taskModel.Task{ID: "t1", Status: taskModel.StatusCompleted, CompletedAt: &now}
		resp := taskModel.NewTaskResponse(task)
		mockSvc.On("Move", mock.Anything, "actor", "t1", "Done").Return(&resp, nil)

		w := doRequest(r, http.MethodPut, "/tasks/t1/move", map[string]string{"column": "Done"})

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Done", body["task"]["status"])
		assert.Equal(t, "Completed", body["task"]["kanban_column"])
		assert.NotEmpty(t, body["task"]["completed_at"])
	})

	t.Run("missing column", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))

		w := doRequest(r, http.MethodPut, "/tasks/t1/move", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Move")
	})

	t.Run("error mapping", func(t *testing.T) {
		cases := map[error]int{
			taskModel.ErrInvalidStatus: http.StatusBadRequest,
			taskModel.ErrTaskNotFound:  http.StatusNotFound,
			access.ErrForbidden:        http.StatusForbidden,
		}
		for err, status := range cases {
			mockSvc := new(mockService)
			r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
			mockSvc.On("Move", mock.Anything, "actor", "t1", "X").Return(nil, err)

			w := doRequest(r, http.MethodPut, "/tasks/t1/move", map[string]string{"column": "X"})
			assert.Equal(t, status, w.Code, err.Error())
		}
	})
}

func TestHandler_Create(t *testing.T) {
	mockSvc := new(mockService)
	r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
	mockSvc.On("Create", mock.Anything, "actor", "p1", mock.AnythingOfType("*model.CreateTaskRequest")).
		Return(nil, taskModel.ErrInvalidAssignee)

	w := doRequest(r, http.MethodPost, "/projects/p1/tasks", map[string]string{
		"title": "T", "assignee_id": "u9", "due_date": "2024-01-01T00:00:00Z",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, httpx.CodeInvalidRequest, resp.Error.Code)
	mockSvc.AssertExpectations(t)
}

func TestHandler_Create_DateFormats(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2024-01-01", "2024-01-01T00:00:00Z"} {
		t.Run(raw, func(t *testing.T) {
			mockSvc := new(mockService)
			r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
			mockSvc.On("Create", mock.Anything, "actor", "p1", mock.MatchedBy(func(req *taskModel.CreateTaskRequest) bool {
				return req.DueDate != nil && req.DueDate.Equal(jan1) && req.StartDate == nil
			})).Return(&taskModel.TaskResponse{ID: "t1", DueDate: jan1}, nil)

			w := doRequest(r, http.MethodPost, "/projects/p1/tasks", map[string]string{
				"title": "T", "assignee_id": "u1", "due_date": raw,
			})

			assert.Equal(t, http.StatusCreated, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}

	t.Run("unparseable date", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))

		w := doRequest(r, http.MethodPost, "/projects/p1/tasks", map[string]string{
			"title": "T", "due_date": "01/02/2024",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp httpx.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, httpx.CodeInvalidRequest, resp.Error.Code)
		mockSvc.AssertNotCalled(t, "Create")
	})
}

func TestHandler_Update_BareDate(t *testing.T) {
	mockSvc := new(mockService)
	r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
	feb15 := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	mockSvc.On("Update", mock.Anything, "actor", "p1", "t1", mock.MatchedBy(func(req *taskModel.UpdateTaskRequest) bool {
		return req.DueDate == nil && req.StartDate != nil && req.StartDate.Equal(feb15)
	})).Return(&taskModel.TaskResponse{ID: "t1"}, nil)

	w := doRequest(r, http.MethodPatch, "/projects/p1/tasks/t1", map[string]string{"start_date": "2024-02-15"})

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHandler_List(t *testing.T) {
	t.Run("filters parsed from query", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mockSvc.On("List", mock.Anything, "actor", "p1", mock.MatchedBy(func(f taskModel.ListFilter) bool {
			return f.Status == taskModel.StatusOngoing && f.AssigneeID == "u1" &&
				f.DueFrom != nil && f.DueFrom.Equal(from) && f.DueTo == nil
		})).Return([]taskModel.TaskResponse{}, nil)

		w := doRequest(r, http.MethodGet, "/projects/p1/tasks?status=In%20Progress&assignee_id=u1&due_from=2024-01-01", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("bad status", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))

		w := doRequest(r, http.MethodGet, "/projects/p1/tasks?status=Blocked", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("project missing", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
		mockSvc.On("List", mock.Anything, "actor", "p1", taskModel.ListFilter{}).
			Return(nil, projectModel.ErrProjectNotFound)

		w := doRequest(r, http.MethodGet, "/projects/p1/tasks", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Calendar(t *testing.T) {
	t.Run("requires both bounds", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))

		w := doRequest(r, http.MethodGet, "/projects/p1/calendar?from=2024-01-01", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		mockSvc := new(mockService)
		r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		mockSvc.On("Calendar", mock.Anything, "actor", "p1",
			mock.MatchedBy(from.Equal), mock.MatchedBy(to.Equal)).Return([]taskModel.TaskResponse{}, nil)

		w := doRequest(r, http.MethodGet, "/projects/p1/calendar?from=2024-01-01&to=2024-01-31", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestHandler_Board(t *testing.T) {
	mockSvc := new(mockService)
	r := setupRouter(New(mockSvc, zap.NewNop().Sugar()))
	mockSvc.On("Board", mock.Anything, "actor", "p1").Return(&taskModel.BoardResponse{
		ProjectID: "p1",
		Columns: []taskModel.BoardColumn{
			{Column: taskModel.StatusAssigned, Label: "To Do", Tasks: []taskModel.TaskResponse{}},
		},
	}, nil)

	w := doRequest(r, http.MethodGet, "/projects/p1/board", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var board taskModel.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, "To Do", board.Columns[0].Label)
}
