package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// Long-lived routes are left out of request latency; the realtime gauge tracks them instead.
var streamingRoutes = map[string]bool{
	"/api/events/stream": true,
}

// AttachTraceContext tags the request with a trace id and request id and echoes both back.
// It must run after otelgin so the server span's trace id wins over a client-supplied one.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		var spanTraceID string
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			spanTraceID = sc.TraceID().String()
		}
		td := &ctxutil.TraceData{
			TraceID:   firstNonBlank(spanTraceID, c.GetHeader(headerTraceID)),
			RequestID: firstNonBlank(c.GetHeader(headerRequestID)),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Set("trace_id", td.TraceID)
		c.Set("request_id", td.RequestID)
		c.Header(headerTraceID, td.TraceID)
		c.Header(headerRequestID, td.RequestID)
		c.Next()
	}
}

// firstNonBlank returns the first non-blank value, or a fresh uuid.
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// Metrics records per-route request counts and latency. A nil registry makes it a pass-through.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if m == nil || streamingRoutes[route] {
			c.Next()
			return
		}
		if route == "" {
			route = "unmatched"
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
