package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware injects the request id into the Gin context and echoes it
// in the response. A valid incoming X-Request-ID UUID is reused.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(helpers.RequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
