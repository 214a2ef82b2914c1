// Package router provides report routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	activityRepository "github.com/planzo/planzo-api/internal/activity/repository"
	"github.com/planzo/planzo-api/internal/mail"
	projectRepository "github.com/planzo/planzo-api/internal/project/repository"
	"github.com/planzo/planzo-api/internal/report/handler"
	"github.com/planzo/planzo-api/internal/report/repository"
	"github.com/planzo/planzo-api/internal/report/service"
)

// RegisterRoutes registers report routes on a group behind the auth middleware.
func RegisterRoutes(r *gin.RouterGroup, db *gorm.DB, mailer mail.Sender, logger *zap.SugaredLogger) {
	svc := service.New(
		repository.New(db, logger),
		projectRepository.New(db, logger),
		activityRepository.New(db, logger),
		mailer,
		logger,
	)
	h := handler.New(svc, logger)

	r.POST("/projects/:projectId/reports", h.Generate)
	r.GET("/projects/:projectId/reports", h.List)
	r.POST("/projects/:projectId/email-summary", h.EmailSummary)
	r.GET("/reports/:reportId", h.Get)
	r.DELETE("/reports/:reportId", h.Delete)
}
