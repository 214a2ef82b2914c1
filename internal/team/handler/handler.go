// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/access"
	"github.com/planzo/planzo-api/internal/httpx"
	teamModel "github.com/planzo/planzo-api/internal/team/model"
	"github.com/planzo/planzo-api/internal/team/service"
	userModel "github.com/planzo/planzo-api/internal/user/model"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Create handles POST /api/teams.
func (h *Handler) Create(c *gin.Context) {
	var req teamModel.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "team name is required")
		return
	}

	resp, err := h.service.Create(c.Request.Context(), httpx.UserID(c), &req)
	if err != nil {
		h.handleError(c, "error creating team", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": resp})
}

// ListJoined handles GET /api/teams/joined.
func (h *Handler) ListJoined(c *gin.Context) {
	teams, err := h.service.ListJoined(c.Request.Context(), httpx.UserID(c))
	if err != nil {
		h.handleError(c, "error listing teams", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// Get handles GET /api/teams/:teamId.
func (h *Handler) Get(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), httpx.UserID(c), c.Param("teamId"))
	if err != nil {
		h.handleError(c, "error getting team", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": resp})
}

// AddMember handles POST /api/teams/:teamId/members.
func (h *Handler) AddMember(c *gin.Context) {
	var req teamModel.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.AddMember(c.Request.Context(), httpx.UserID(c), c.Param("teamId"), req.Email)
	if err != nil {
		h.handleError(c, "error adding team member", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": resp})
}

// RemoveMember handles DELETE /api/teams/:teamId/members/:memberId.
func (h *Handler) RemoveMember(c *gin.Context) {
	err := h.service.RemoveMember(c.Request.Context(), httpx.UserID(c), c.Param("teamId"), c.Param("memberId"))
	if err != nil {
		h.handleError(c, "error removing team member", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// AssignRole handles PUT /api/teams/:teamId/members/:memberId/role.
func (h *Handler) AssignRole(c *gin.Context) {
	var req teamModel.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.AssignRole(
		c.Request.Context(),
		httpx.UserID(c),
		c.Param("teamId"),
		c.Param("memberId"),
		req.Role,
	)
	if err != nil {
		h.handleError(c, "error assigning team role", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": resp})
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, teamModel.ErrTeamNotFound):
		httpx.NotFound(c, "team not found")
	case errors.Is(err, userModel.ErrUserNotFound):
		httpx.NotFound(c, "user not found")
	case errors.Is(err, teamModel.ErrMemberNotFound):
		httpx.NotFound(c, "team member not found")
	case errors.Is(err, teamModel.ErrInvalidTeamName):
		httpx.BadRequest(c, "team name is required")
	case errors.Is(err, teamModel.ErrEmailRequired):
		httpx.BadRequest(c, "email is required")
	case errors.Is(err, access.ErrInvalidRole):
		httpx.BadRequest(c, "role must be Manager or Contributor")
	case errors.Is(err, access.ErrForbidden):
		httpx.Forbidden(c, "not allowed to perform this action on the team")
	case errors.Is(err, teamModel.ErrAlreadyMember):
		httpx.Conflict(c, "user is already a team member")
	case errors.Is(err, teamModel.ErrVersionConflict):
		httpx.Conflict(c, "team was modified concurrently, retry")
	default:
		h.logger.Errorw(msg, "error", err)
		httpx.Internal(c)
	}
}
