// Package router provides project module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/project/handler"
	"github.com/planzo/planzo-api/internal/project/repository"
	"github.com/planzo/planzo-api/internal/project/service"
	teamRepository "github.com/planzo/planzo-api/internal/team/repository"
	userRepository "github.com/planzo/planzo-api/internal/user/repository"
)

// RegisterRoutes registers project module routes on a group behind the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB, activity service.ActivityRecorder, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, userRepository.New(db, logger), teamRepository.New(db, logger), activity, db, logger)
	h := handler.New(svc, logger)

	projects := r.Group("/projects")
	projects.POST("", h.Create)
	projects.GET("", h.List)
	projects.GET("/:projectId", h.Get)
	projects.PUT("/:projectId", h.Update)
	projects.DELETE("/:projectId", h.Delete)
	projects.POST("/:projectId/members", h.AddMember)
	projects.DELETE("/:projectId/members/:memberId", h.RemoveMember)
	projects.POST("/:projectId/teams", h.AddTeam)
	projects.DELETE("/:projectId/teams/:teamId", h.RemoveTeam)
}
