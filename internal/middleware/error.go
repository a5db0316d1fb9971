package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
)

// ErrorHandler writes the error envelope for the last error pushed with
// c.Error. It is the only place an error kind becomes an HTTP status.
func ErrorHandler(logger zerolog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := errors.As(c.Errors.Last().Err)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		event := logger.Warn()
		if appErr.Kind == errors.KindInternal {
			event = logger.Error()
		}
		event.
			Err(appErr.Unwrap()).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("code", string(appErr.Kind)).
			Msg(appErr.Message)

		if m != nil {
			m.ErrorTotal.WithLabelValues(c.Request.Method, path, string(appErr.Kind)).Inc()
		}

		if c.Writer.Written() {
			return
		}
		httputil.RespondWithError(c, appErr)
	}
}
