package api

import (
	"net/http"

	"imagelens/image-api/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) UserLogout(c *gin.Context) {
	if err := session.Clear(c); err != nil {
		zap.L().Warn("Failed to clear session", zap.Error(err), zap.String("requestID", c.GetString("requestID")))
	}

	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
