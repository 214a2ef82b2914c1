// Package health serves the liveness endpoint.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/planzo/planzo-api/internal/database/database"
)

const checkTimeout = 5 * time.Second

const (
	statusOK        = "ok"
	statusUnhealthy = "unhealthy"
)

// Check is an extra dependency probed on every request.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	checks []Check
	logger *zap.SugaredLogger
	now    func() time.Time
}

// New creates a health handler. The database is always probed.
func New(db *gorm.DB, logger *zap.SugaredLogger, checks ...Check) *Handler {
	return &Handler{
		db:     db,
		checks: checks,
		logger: logger,
		now:    time.Now,
	}
}

// Response is the health check body.
type Response struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// Check handles GET /health.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := Response{
		Status:    statusOK,
		Checks:    make(map[string]string, len(h.checks)+1),
		Timestamp: h.now().UTC(),
	}

	probe := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			h.logger.Warnw("health check failed", "dependency", name, "error", err)
			resp.Checks[name] = statusUnhealthy
			resp.Status = statusUnhealthy
			return
		}
		resp.Checks[name] = statusOK
	}

	probe("database", func(ctx context.Context) error { return database.HealthCheck(ctx, h.db) })
	for _, check := range h.checks {
		probe(check.Name, check.Ping)
	}

	code := http.StatusOK
	if resp.Status != statusOK {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
