package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the correlation ID across service hops
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey stores the correlation ID in the gin context
	CorrelationIDKey = "correlation_id"
)

// CorrelationID tags each request with a correlation ID. A caller-supplied
// header value is honored so the ID survives across services; otherwise a
// fresh UUID is minted. The ID is echoed back in the response header and kept
// in the gin context for handlers and the request logger.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(CorrelationIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(CorrelationIDKey, id)
		c.Header(CorrelationIDHeader, id)

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation ID, or an empty string
// when the middleware did not run.
func GetCorrelationID(c *gin.Context) string {
	value, _ := c.Get(CorrelationIDKey)
	id, _ := value.(string)
	return id
}
