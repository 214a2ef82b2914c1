package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/planzo/planzo-api/internal/httpx"
)

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func setupLoggerRouter(logger *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(logger))
	r.GET("/projects/:projectId", func(c *gin.Context) {
		c.Set(httpx.ContextUserID, "u1")
		c.JSON(http.StatusOK, gin.H{"project": c.Param("projectId")})
	})
	r.GET("/missing", func(c *gin.Context) {
		httpx.NotFound(c, "project not found")
	})
	r.GET("/broken", func(c *gin.Context) {
		httpx.Internal(c)
	})
	return r
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		level  zapcore.Level
	}{
		{name: "success", path: "/projects/p1", status: http.StatusOK, level: zapcore.InfoLevel},
		{name: "client error", path: "/missing", status: http.StatusNotFound, level: zapcore.WarnLevel},
		{name: "server error", path: "/broken", status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observedLogger()
			router := setupLoggerRouter(logger)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, "HTTP request", entry.Message)
			assert.EqualValues(t, tt.status, entry.ContextMap()["status"])
		})
	}
}

func TestLogger_Fields(t *testing.T) {
	logger, logs := observedLogger()
	router := setupLoggerRouter(logger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/p1?page=2", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/projects/p1", fields["path"])
	assert.Equal(t, "/projects/:projectId", fields["route"])
	assert.Equal(t, "page=2", fields["query"])
	assert.Equal(t, "u1", fields["user_id"])
}

func TestLogger_AnonymousRequestHasNoUser(t *testing.T) {
	logger, logs := observedLogger()
	router := setupLoggerRouter(logger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, 1, logs.Len())
	_, ok := logs.All()[0].ContextMap()["user_id"]
	assert.False(t, ok)
}
