// Package handler provides HTTP handlers for identity endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/httpx"
	"github.com/planzo/planzo-api/internal/user/model"
	"github.com/planzo/planzo-api/internal/user/service"
	"github.com/planzo/planzo-api/pkg/validation"
)

// CookieName is the cookie carrying the access token for browser clients.
const CookieName = httpx.TokenCookie

// Handler handles HTTP requests for identity endpoints.
type Handler struct {
	service      service.Service
	logger       *zap.SugaredLogger
	cookieSecure bool
}

// New creates a new user handler instance.
func New(svc service.Service, logger *zap.SugaredLogger, cookieSecure bool) *Handler {
	return &Handler{service: svc, logger: logger, cookieSecure: cookieSecure}
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "name, email and password are required")
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, "error signing up", err)
		return
	}

	h.setCookie(c, resp.Token, resp.ExpiresAt)
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "email and password are required")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, "error logging in", err)
		return
	}

	h.setCookie(c, resp.Token, resp.ExpiresAt)
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	err := h.service.Logout(c.Request.Context(), httpx.TokenID(c), httpx.TokenExpiry(c))
	if err != nil {
		h.handleError(c, "error logging out", err)
		return
	}

	c.SetCookie(CookieName, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Profile handles GET /api/auth/profile.
func (h *Handler) Profile(c *gin.Context) {
	resp, err := h.service.Profile(c.Request.Context(), httpx.UserID(c))
	if err != nil {
		h.handleError(c, "error getting profile", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), httpx.UserID(c), &req)
	if err != nil {
		h.handleError(c, "error updating profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) setCookie(c *gin.Context, value string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", h.cookieSecure, true)
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, validation.ErrValidation):
		httpx.BadRequest(c, validation.Message(err))
	case errors.Is(err, model.ErrEmailTaken):
		httpx.Conflict(c, "email already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		httpx.Unauthorized(c, "invalid email or password")
	case errors.Is(err, model.ErrUserNotFound):
		httpx.NotFound(c, "user not found")
	case errors.Is(err, model.ErrInvalidUserID):
		httpx.Unauthorized(c, "authentication required")
	default:
		h.logger.Errorw(msg, "error", err)
		httpx.Internal(c)
	}
}
