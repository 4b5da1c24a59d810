package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// History lists the caller's analyses in insertion order. Image bytes
// stay out of the listing, the template links to /image/:id instead
func (a *API) History(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	entries, err := a.Store.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		if wantsHTML(c) {
			c.String(http.StatusInternalServerError, "Internal server error")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})
		}

		zap.L().Error("Failed to list analyses", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if wantsHTML(c) {
		c.HTML(http.StatusOK, "history.html", gin.H{
			"username": c.GetString("username"),
			"entries":  entries,
		})
		return
	}

	c.JSON(http.StatusOK, entries)
}
