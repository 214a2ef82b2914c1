// Package app assembles the HTTP engine from the feature modules.
package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	activityRepository "github.com/planzo/planzo-api/internal/activity/repository"
	activityRouter "github.com/planzo/planzo-api/internal/activity/router"
	activityService "github.com/planzo/planzo-api/internal/activity/service"
	"github.com/planzo/planzo-api/internal/config"
	"github.com/planzo/planzo-api/internal/health"
	"github.com/planzo/planzo-api/internal/httpx"
	"github.com/planzo/planzo-api/internal/mail"
	"github.com/planzo/planzo-api/internal/middleware"
	projectRepository "github.com/planzo/planzo-api/internal/project/repository"
	projectRouter "github.com/planzo/planzo-api/internal/project/router"
	reportRouter "github.com/planzo/planzo-api/internal/report/router"
	"github.com/planzo/planzo-api/internal/session"
	taskRouter "github.com/planzo/planzo-api/internal/task/router"
	teamRepository "github.com/planzo/planzo-api/internal/team/repository"
	teamRouter "github.com/planzo/planzo-api/internal/team/router"
	userRouter "github.com/planzo/planzo-api/internal/user/router"
	"github.com/planzo/planzo-api/internal/user/token"
)

// APIPrefix is the path every feature route lives under.
const APIPrefix = "/api"

// Deps are the long-lived collaborators built by the entrypoint.
type Deps struct {
	DB           *gorm.DB
	Tokens       *token.Manager
	Sessions     session.Store
	Mailer       mail.Sender
	HealthChecks []health.Check
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(cfg config.Config, deps Deps, logger *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.NoRoute(func(c *gin.Context) {
		httpx.NotFound(c, "route not found")
	})

	healthHandler := health.New(deps.DB, logger, deps.HealthChecks...)
	r.GET("/health", healthHandler.Check)

	public := r.Group(APIPrefix)
	protected := r.Group(APIPrefix)
	protected.Use(middleware.Auth(deps.Tokens, deps.Sessions, logger))

	activity := activityService.New(
		activityRepository.New(deps.DB, logger),
		projectRepository.New(deps.DB, logger),
		teamRepository.New(deps.DB, logger),
		logger,
	)

	userRouter.RegisterRoutes(public, protected, deps.DB, userRouter.Deps{
		Tokens:       deps.Tokens,
		Sessions:     deps.Sessions,
		CookieSecure: cfg.Auth.CookieSecure,
	}, logger)
	teamRouter.RegisterRoutes(protected, deps.DB, activity, logger)
	projectRouter.RegisterRoutes(protected, deps.DB, activity, logger)
	taskRouter.RegisterRoutes(protected, deps.DB, activity, logger)
	activityRouter.RegisterRoutes(protected, activity, logger)
	reportRouter.RegisterRoutes(protected, deps.DB, deps.Mailer, logger)

	return r
}
