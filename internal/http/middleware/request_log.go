package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

// Probe and scrape traffic is logged at debug so it does not drown learner requests.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

// RequestLogger emits one line per request after the handler chain. The level follows the
// status class: 5xx error, 4xx warn, everything else info.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		ctx := c.Request.Context()

		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := ctxutil.GetIdentity(ctx); id != nil {
			fields = append(fields, "user_id", id.UserID)
		}
		fields = append(fields, ctxutil.LogFields(ctx)...)

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case quietRoutes[route]:
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
