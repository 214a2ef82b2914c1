// Package httpx holds the JSON error envelope and request helpers shared by
// every HTTP handler.
package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes used in the response envelope.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeForbidden      = "FORBIDDEN"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

// ContextTokenID is the gin context key holding the current token id (jti).
const ContextTokenID = "tokenID"

// ContextTokenExpiry is the gin context key holding the current token expiry.
const ContextTokenExpiry = "tokenExpiry"

// TokenCookie is the cookie carrying the access token for browser clients.
const TokenCookie = "jwt"

// ErrorResponse represents the error response structure.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Error writes the error envelope and aborts the chain.
func Error(c *gin.Context, code string, message string, statusCode int) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.AbortWithStatusJSON(statusCode, resp)
}

// NotFound writes a 404 error.
func NotFound(c *gin.Context, message string) {
	Error(c, CodeNotFound, message, http.StatusNotFound)
}

// BadRequest writes a 400 error.
func BadRequest(c *gin.Context, message string) {
	Error(c, CodeInvalidRequest, message, http.StatusBadRequest)
}

// Forbidden writes a 403 error.
func Forbidden(c *gin.Context, message string) {
	Error(c, CodeForbidden, message, http.StatusForbidden)
}

// Unauthorized writes a 401 error.
func Unauthorized(c *gin.Context, message string) {
	Error(c, CodeUnauthorized, message, http.StatusUnauthorized)
}

// Conflict writes a 409 error.
func Conflict(c *gin.Context, message string) {
	Error(c, CodeConflict, message, http.StatusConflict)
}

// Internal writes a 500 error with a generic message.
func Internal(c *gin.Context) {
	Error(c, CodeInternal, "internal server error", http.StatusInternalServerError)
}

// UserID returns the authenticated user id set by the auth middleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// TokenID returns the current token id set by the auth middleware.
func TokenID(c *gin.Context) string {
	return c.GetString(ContextTokenID)
}

// TokenExpiry returns the current token expiry set by the auth middleware.
func TokenExpiry(c *gin.Context) time.Time {
	return c.GetTime(ContextTokenExpiry)
}

// Page reads page and limit query parameters. Invalid or missing values fall
// back to page 1 and defaultLimit; limit is capped at maxLimit.
func Page(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
