package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries the trace id in both directions.
	HeaderRequestID = "X-Request-ID"
	// ContextKeyTraceID holds the request's trace id in Gin context.
	ContextKeyTraceID = "traceID"
)

// TraceMiddleware reuses an incoming X-Request-ID or assigns a new uuid, and echoes it
// on the response.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ContextKeyTraceID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// TraceID returns the request's trace id, or "" outside TraceMiddleware.
func TraceID(c *gin.Context) string {
	return c.GetString(ContextKeyTraceID)
}
