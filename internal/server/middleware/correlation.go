package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader is the HTTP header for correlation ID
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey is the key used to store correlation ID in the context
	CorrelationIDKey = "correlation_id"
)

type correlationContextKey struct{}

// CorrelationID middleware ensures each request has a unique identifier for
// tracing. The ID is echoed in the response header, stored in the gin
// context, and injected into the request context so it survives the hop
// into the service layer.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, correlationID)
		c.Set(CorrelationIDKey, correlationID)

		ctx := context.WithValue(c.Request.Context(), correlationContextKey{}, correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCorrelationID retrieves the correlation ID from the gin context if present
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}

// CorrelationIDFromContext retrieves the correlation ID from a plain
// context, or "" when the request never passed through the middleware
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationContextKey{}).(string); ok {
		return id
	}
	return ""
}
