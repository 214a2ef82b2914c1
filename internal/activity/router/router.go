// Package router provides activity log routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/activity/handler"
	"github.com/planzo/planzo-api/internal/activity/service"
)

// RegisterRoutes registers activity routes on a group behind the auth middleware.
// svc is the same instance the other modules record through.
func RegisterRoutes(r *gin.RouterGroup, svc service.Service, logger *zap.SugaredLogger) {
	h := handler.New(svc, logger)

	r.GET("/projects/:projectId/activity", h.ListByProject)
	r.GET("/activity/me", h.ListMine)
	r.GET("/activity/entity/:entityType/:entityId", h.ListByEntity)
	r.GET("/activity/filter", h.Filter)
}
