// Package handler provides HTTP handlers for report endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	"github.com/planzo/planzo-api/internal/httpx"
	"github.com/planzo/planzo-api/internal/mail"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	reportModel "github.com/planzo/planzo-api/internal/report/model"
	"github.com/planzo/planzo-api/internal/report/service"
	"github.com/planzo/planzo-api/pkg/validation"
)

// Handler handles HTTP requests for report endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new report handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Generate handles POST /api/projects/:projectId/reports.
func (h *Handler) Generate(c *gin.Context) {
	var req reportModel.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "report type is required")
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), &req)
	if err != nil {
		h.handleError(c, "error generating report", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": resp})
}

// List handles GET /api/projects/:projectId/reports.
func (h *Handler) List(c *gin.Context) {
	reports, err := h.service.List(c.Request.Context(), httpx.UserID(c), c.Param("projectId"))
	if err != nil {
		h.handleError(c, "error listing reports", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Get handles GET /api/reports/:reportId.
func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), httpx.UserID(c), c.Param("reportId"))
	if err != nil {
		h.handleError(c, "error getting report", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": resp})
}

// Delete handles DELETE /api/reports/:reportId.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), httpx.UserID(c), c.Param("reportId")); err != nil {
		h.handleError(c, "error deleting report", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}

// EmailSummary handles POST /api/projects/:projectId/email-summary.
func (h *Handler) EmailSummary(c *gin.Context) {
	var req reportModel.EmailSummaryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid request body")
			return
		}
	}

	resp, err := h.service.EmailSummary(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), &req)
	if err != nil {
		h.handleError(c, "error sending summary", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, reportModel.ErrReportNotFound):
		httpx.NotFound(c, "report not found")
	case errors.Is(err, projectModel.ErrProjectNotFound):
		httpx.NotFound(c, "project not found")
	case errors.Is(err, reportModel.ErrInvalidReportType):
		httpx.BadRequest(c, "report type must be one of: Burn Down, Task Progress, Team Performance, Time Tracking")
	case errors.Is(err, reportModel.ErrNoRecipients):
		httpx.BadRequest(c, "no recipients for summary")
	case errors.Is(err, validation.ErrValidation):
		httpx.BadRequest(c, validation.Message(err))
	case errors.Is(err, access.ErrForbidden):
		httpx.Forbidden(c, "you do not have permission to perform this action")
	case errors.Is(err, mail.ErrNoRecipients):
		httpx.BadRequest(c, "no recipients for summary")
	default:
		h.logger.Errorw(msg, "error", err)
		httpx.Internal(c)
	}
}
