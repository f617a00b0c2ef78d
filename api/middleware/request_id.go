package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id on requests and responses.
	RequestIDHeader = "X-Request-Id"

	// requestIDKey is the gin context key holding the request id.
	requestIDKey = "request_id"

	maxRequestIDLen = 128
)

// RequestID tags every request with an id, reusing a caller-supplied one
// when it is reasonably sized.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
