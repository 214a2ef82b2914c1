// Package handler provides HTTP handlers for activity log endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	activityModel "github.com/planzo/planzo-api/internal/activity/model"
	"github.com/planzo/planzo-api/internal/activity/service"
	"github.com/planzo/planzo-api/internal/httpx"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
)

// Handler handles HTTP requests for activity log endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new activity handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// ListByProject handles GET /api/projects/:projectId/activity.
func (h *Handler) ListByProject(c *gin.Context) {
	page, limit := httpx.Page(c, activityModel.DefaultLimit, activityModel.MaxLimit)

	resp, err := h.service.ListByProject(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), page, limit)
	if err != nil {
		h.handleError(c, "error listing project activity", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMine handles GET /api/activity/me.
func (h *Handler) ListMine(c *gin.Context) {
	page, limit := httpx.Page(c, activityModel.DefaultLimit, activityModel.MaxLimit)

	resp, err := h.service.ListByUser(c.Request.Context(), httpx.UserID(c), page, limit)
	if err != nil {
		h.handleError(c, "error listing user activity", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListByEntity handles GET /api/activity/entity/:entityType/:entityId.
func (h *Handler) ListByEntity(c *gin.Context) {
	page, limit := httpx.Page(c, activityModel.DefaultLimit, activityModel.MaxLimit)

	resp, err := h.service.ListByEntity(
		c.Request.Context(),
		httpx.UserID(c),
		c.Param("entityType"),
		c.Param("entityId"),
		page,
		limit,
	)
	if err != nil {
		h.handleError(c, "error listing entity activity", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Filter handles GET /api/activity/filter.
// Optional query: project_id, entity_type, action, start_date, end_date.
func (h *Handler) Filter(c *gin.Context) {
	filter := activityModel.Filter{ProjectID: c.Query("project_id")}

	if raw := c.Query("entity_type"); raw != "" {
		et, err := activityModel.ParseEntityType(raw)
		if err != nil {
			h.handleError(c, "invalid entity type", err)
			return
		}
		filter.EntityType = et
	}
	if raw := c.Query("action"); raw != "" {
		action, err := activityModel.ParseAction(raw)
		if err != nil {
			h.handleError(c, "invalid action", err)
			return
		}
		filter.Action = action
	}

	var err error
	if filter.From, err = parseBound(c.Query("start_date"), false); err != nil {
		httpx.BadRequest(c, "start_date must be an RFC 3339 timestamp or YYYY-MM-DD")
		return
	}
	if filter.To, err = parseBound(c.Query("end_date"), true); err != nil {
		httpx.BadRequest(c, "end_date must be an RFC 3339 timestamp or YYYY-MM-DD")
		return
	}

	logs, err := h.service.Filter(c.Request.Context(), httpx.UserID(c), filter)
	if err != nil {
		h.handleError(c, "error filtering activity", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// parseBound parses a range bound. A bare end date covers the whole day.
func parseBound(raw string, end bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, projectModel.ErrProjectNotFound):
		httpx.NotFound(c, "project not found")
	case errors.Is(err, access.ErrForbidden):
		httpx.Forbidden(c, "you cannot view this activity")
	case errors.Is(err, activityModel.ErrInvalidEntityType),
		errors.Is(err, activityModel.ErrInvalidAction),
		errors.Is(err, activityModel.ErrInvalidRange):
		httpx.BadRequest(c, err.Error())
	default:
		h.logger.Errorw(msg, "error", err)
		httpx.Internal(c)
	}
}
