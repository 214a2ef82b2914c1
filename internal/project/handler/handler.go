// Package handler provides HTTP handlers for project endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	"github.com/planzo/planzo-api/internal/httpx"
	projectModel "github.com/planzo/planzo-api/internal/project/model"
	"github.com/planzo/planzo-api/internal/project/service"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
	userModel "github.com/planzo/planzo-api/internal/user/model"
)

// Handler handles HTTP requests for project endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new project handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /api/projects.
func (h *Handler) Create(c *gin.Context) {
	var req projectModel.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "project name is required")
		return
	}

	resp, err := h.service.Create(c.Request.Context(), httpx.UserID(c), &req)
	if err != nil {
		h.handleError(c, "error creating project", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": resp})
}

// List handles GET /api/projects.
func (h *Handler) List(c *gin.Context) {
	projects, err := h.service.List(c.Request.Context(), httpx.UserID(c))
	if err != nil {
		h.handleError(c, "error listing projects", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get handles GET /api/projects/:projectId.
func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), httpx.UserID(c), c.Param("projectId"))
	if err != nil {
		h.handleError(c, "error getting project", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": resp})
}

// Update handles PUT /api/projects/:projectId.
func (h *Handler) Update(c *gin.Context) {
	var req projectModel.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Update(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), &req)
	if err != nil {
		h.handleError(c, "error updating project", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": resp})
}

// Delete handles DELETE /api/projects/:projectId.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), httpx.UserID(c), c.Param("projectId")); err != nil {
		h.handleError(c, "error deleting project", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// AddMember handles POST /api/projects/:projectId/members.
func (h *Handler) AddMember(c *gin.Context) {
	var req projectModel.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "user_id is required")
		return
	}

	resp, err := h.service.AddMember(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), &req)
	if err != nil {
		h.handleError(c, "error adding project member", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": resp})
}

// RemoveMember handles DELETE /api/projects/:projectId/members/:memberId.
func (h *Handler) RemoveMember(c *gin.Context) {
	err := h.service.RemoveMember(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), c.Param("memberId"))
	if err != nil {
		h.handleError(c, "error removing project member", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// AddTeam handles POST /api/projects/:projectId/teams.
func (h *Handler) AddTeam(c *gin.Context) {
	var req projectModel.AddTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "team_id is required")
		return
	}

	resp, err := h.service.AddTeam(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), req.TeamID)
	if err != nil {
		h.handleError(c, "error attaching team", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": resp})
}

// RemoveTeam handles DELETE /api/projects/:projectId/teams/:teamId.
func (h *Handler) RemoveTeam(c *gin.Context) {
	err := h.service.RemoveTeam(c.Request.Context(), httpx.UserID(c), c.Param("projectId"), c.Param("teamId"))
	if err != nil {
		h.handleError(c, "error detaching team", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "team detached"})
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, projectModel.ErrProjectNotFound):
		httpx.NotFound(c, "project not found")
	case errors.Is(err, userModel.ErrUserNotFound):
		httpx.NotFound(c, "user not found")
	case errors.Is(err, teamModel.ErrTeamNotFound):
		httpx.NotFound(c, "team not found")
	case errors.Is(err, projectModel.ErrMemberNotFound):
		httpx.NotFound(c, "project member not found")
	case errors.Is(err, projectModel.ErrTeamNotAttached):
		httpx.NotFound(c, "team is not attached to the project")
	case errors.Is(err, projectModel.ErrInvalidProjectName):
		httpx.BadRequest(c, "project name is required")
	case errors.Is(err, access.ErrInvalidRole):
		httpx.BadRequest(c, "role must be Manager or Contributor")
	case errors.Is(err, access.ErrForbidden):
		httpx.Forbidden(c, "not allowed to perform this action on the project")
	case errors.Is(err, projectModel.ErrAlreadyMember):
		httpx.Conflict(c, "user is already a project member")
	case errors.Is(err, projectModel.ErrTeamAlreadyAttached):
		httpx.Conflict(c, "team is already attached to the project")
	case errors.Is(err, projectModel.ErrVersionConflict):
		httpx.Conflict(c, "project was modified concurrently, retry")
	default:
		h.logger.Errorw(msg, "error", err)
		httpx.Internal(c)
	}
}
