// Package router provides task module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	projectRepository "github.com/planzo/planzo-api/internal/project/repository"
	"github.com/planzo/planzo-api/internal/task/handler"
	"github.com/planzo/planzo-api/internal/task/repository"
	"github.com/planzo/planzo-api/internal/task/service"
	teamRepository "github.com/planzo/planzo-api/internal/team/repository"
)

// RegisterRoutes registers task module routes on a group behind the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB, activity service.ActivityRecorder, logger *zap.SugaredLogger) {
	repo := repository.New(db, logger)
	svc := service.New(repo, projectRepository.New(db, logger), teamRepository.New(db, logger), activity, db, logger)
	h := handler.New(svc, logger)

	projects := r.Group("/projects/:projectId")
	projects.POST("/tasks", h.Create)
	projects.GET("/tasks", h.List)
	projects.GET("/tasks/:taskId", h.Get)
	projects.PATCH("/tasks/:taskId", h.Update)
	projects.DELETE("/tasks/:taskId", h.Delete)
	projects.GET("/board", h.Board)
	projects.GET("/calendar", h.Calendar)

	r.PUT("/tasks/:taskId/move", h.Move)
}
