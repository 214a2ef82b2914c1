// Package router provides team module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/team/handler"
	"github.com/planzo/planzo-api/internal/team/repository"
	"github.com/planzo/planzo-api/internal/team/service"
	userRepository "github.com/planzo/planzo-api/internal/user/repository"
)

// RegisterRoutes registers team module routes on a group behind the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB, activity service.ActivityRecorder, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	users := userRepository.New(db, logger)
	svc := service.New(repo, users, activity, db, logger)
	h := handler.New(svc, logger)

	teams := r.Group("/teams")
	teams.POST("", h.Create)
	teams.GET("/joined", h.ListJoined)
	teams.GET("/:teamId", h.Get)
	teams.POST("/:teamId/members", h.AddMember)
	teams.DELETE("/:teamId/members/:memberId", h.RemoveMember)
	teams.PUT("/:teamId/members/:memberId/role", h.AssignRole)
}
