// Package handler provides HTTP handlers for task endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	"github.com/planzo/planzo-api/internal/httpx"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	taskModel "github.com/planzo/planzo-api/internal/task/model"
	"github.com/planzo/planzo-api/internal/task/service"
)

// Handler handles HTTP requests for task endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new task handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /api/projects/:projectId/tasks.
func (h *Handler) Create(c *gin.Context) {
	var req taskModel.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), &req)
	if err != nil {
		h.handleError(c, "error creating task", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": resp})
}

// List handles GET /api/projects/:projectId/tasks.
// Optional query: status, assignee_id, due_from, due_to.
func (h *Handler) List(c *gin.Context) {
	var filter taskModel.ListFilter

	if raw := c.Query("status"); raw != "" {
		status, err := taskModel.ParseStatus(raw)
		if err != nil {
			httpx.BadRequest(c, "invalid status filter")
			return
		}
		filter.Status = status
	}
	filter.AssigneeID = c.Query("assignee_id")

	var err error
	if filter.DueFrom, err = optionalDate(c.Query("due_from")); err != nil {
		httpx.BadRequest(c, "due_from must be a date")
		return
	}
	if filter.DueTo, err = optionalDate(c.Query("due_to")); err != nil {
		httpx.BadRequest(c, "due_to must be a date")
		return
	}

	tasks, err := h.service.List(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), filter)
	if err != nil {
		h.handleError(c, "error listing tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Get handles GET /api/projects/:projectId/tasks/:taskId.
func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), c.Param("taskId"))
	if err != nil {
		h.handleError(c, "error getting task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": resp})
}

// Update handles PATCH /api/projects/:projectId/tasks/:taskId.
func (h *Handler) Update(c *gin.Context) {
	var req taskModel.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.service.Update(
		c.Request.Context(),
		httpx.UserID(c),
		c.Param("projectId"),
		c.Param("taskId"),
		&req,
	)
	if err != nil {
		h.handleError(c, "error updating task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": resp})
}

// Delete handles DELETE /api/projects/:projectId/tasks/:taskId.
func (h *Handler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), c.Param("taskId"))
	if err != nil {
		h.handleError(c, "error deleting task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// Move handles PUT /api/tasks/:taskId/move.
func (h *Handler) Move(c *gin.Context) {
	var req taskModel.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "column is required")
		return
	}

	resp, err := h.service.Move(c.Request.Context(), httpx.UserID(c), c.Param("taskId"), req.Column)
	if err != nil {
		h.handleError(c, "error moving task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": resp})
}

// Board handles GET /api/projects/:projectId/board.
func (h *Handler) Board(c *gin.Context) {
	resp, err := h.service.Board(c.Request.Context(), httpx.UserID(c), c.Param("projectId"))
	if err != nil {
		h.handleError(c, "error building board", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Calendar handles GET /api/projects/:projectId/calendar?from=&to=.
func (h *Handler) Calendar(c *gin.Context) {
	from, err := optionalDate(c.Query("from"))
	if err != nil || from == nil {
		httpx.BadRequest(c, "from must be a date")
		return
	}
	to, err := optionalDate(c.Query("to"))
	if err != nil || to == nil {
		httpx.BadRequest(c, "to must be a date")
		return
	}

	tasks, err := h.service.Calendar(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), *from, *to)
	if err != nil {
		h.handleError(c, "error building calendar", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// optionalDate parses an RFC 3339 timestamp or a bare date. Empty input yields nil.
func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := taskModel.ParseDate(raw)
	if err != nil {
		return nil, taskModel.ErrInvalidDateRange
	}
	return &d.Time, nil
}

func bindError(c *gin.Context, err error) {
	if errors.Is(err, taskModel.ErrInvalidDate) {
		httpx.BadRequest(c, taskModel.ErrInvalidDate.Error())
		return
	}
	httpx.BadRequest(c, "invalid request body")
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, taskModel.ErrTaskNotFound):
		httpx.NotFound(c, "task not found")
	case errors.Is(err, projectModel.ErrProjectNotFound):
		httpx.NotFound(c, "project not found")
	case errors.Is(err, taskModel.ErrTitleRequired),
		errors.Is(err, taskModel.ErrDueDateRequired),
		errors.Is(err, taskModel.ErrInvalidStatus),
		errors.Is(err, taskModel.ErrInvalidPriority),
		errors.Is(err, taskModel.ErrInvalidAssignee),
		errors.Is(err, taskModel.ErrInvalidDateRange):
		httpx.BadRequest(c, err.Error())
	case errors.Is(err, access.ErrForbidden):
		httpx.Forbidden(c, "not allowed to perform this action on the task")
	default:
		h.logger.Errorw(msg, "error", err)
		httpx.Internal(c)
	}
}
