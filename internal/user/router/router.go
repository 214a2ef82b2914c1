// Package router provides identity routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/session"
	"github.com/planzo/planzo-api/internal/user/handler"
	"github.com/planzo/planzo-api/internal/user/repository"
	"github.com/planzo/planzo-api/internal/user/service"
	"github.com/planzo/planzo-api/internal/user/token"
)

// Deps are the collaborators the identity routes need besides the database.
type Deps struct {
	Tokens       *token.Manager
	Sessions     session.Store
	CookieSecure bool
}

// RegisterRoutes registers identity routes. public receives signup and login;
// protected is expected to sit behind the auth middleware.
func RegisterRoutes(public, protected *gin.RouterGroup, db *gorm.DB, deps Deps, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, deps.Tokens, deps.Sessions, logger)
	h := handler.New(svc, logger, deps.CookieSecure)

	public.POST("/auth/signup", h.Signup)
	public.POST("/auth/login", h.Login)

	protected.POST("/auth/logout", h.Logout)
	protected.GET("/auth/profile", h.Profile)
	protected.PUT("/auth/profile", h.UpdateProfile)
}
