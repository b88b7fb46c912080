package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"agilesense.ai/services/common/logger"
)

const requestIDKey = "request_id"

// RequestID reuses the inbound header value or generates a UUID, echoes it
// on the response and adds it to the request's log fields.
func RequestID(header string) gin.HandlerFunc {
	if header == "" {
		header = "X-Request-Id"
	}
	return func(c *gin.Context) {
		rid := c.GetHeader(header)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(requestIDKey, rid)
		c.Header(header, rid)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: &rid})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
