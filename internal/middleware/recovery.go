package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/planzo/planzo-api/internal/httpx"
)

// Recovery turns handler panics into the shared 500 error body.
//
// http.ErrAbortHandler is re-raised so net/http can drop the connection. A panic
// after the response has started only aborts the chain.
func Recovery(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logger.Errorw("panic recovered",
				"error", rec,
				"route", c.FullPath(),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"user_id", httpx.UserID(c),
				"written", c.Writer.Written(),
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			httpx.Internal(c)
		}()

		c.Next()
	}
}
