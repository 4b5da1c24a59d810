// Package middleware contains any custom middleware used in the app
package middleware

import (
	"imagelens/image-api/util"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// NewRequestIDMiddleware tags every request with an ID for log
// correlation. An incoming X-Request-ID is reused so IDs survive a
// proxy hop, and the ID is echoed back on the response
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = util.RandStr(10)
		}

		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
