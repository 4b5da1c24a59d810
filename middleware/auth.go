package middleware

import (
	"errors"
	"net/http"
	"strings"

	"imagelens/image-api/session"
	"imagelens/image-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAuthMiddleware guards protected routes. Requests without a valid
// session never reach the handler. Browser requests get redirected to
// the login page, API requests get a JSON 401
func NewAuthMiddleware(s store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		userID, ok := session.UserID(c)
		if !ok {
			reject(c, requestID)
			return
		}

		// The session may outlive the account, so re-check the row.
		// A stale cookie must not act as a valid identity
		user, err := s.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				session.Clear(c)
				reject(c, requestID)
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}

func reject(c *gin.Context, requestID string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":     "Not logged in",
		"requestID": requestID,
	})
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
