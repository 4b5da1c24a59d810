package api

import (
	"errors"
	"net/http"

	"imagelens/image-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageServe streams a stored image back to its owner. Other users get
// a 403 no matter whether the ID exists
func (a *API) ImageServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No image ID provided",
			"requestID": requestID,
		})
		return
	}

	analysis, err := a.Store.AnalysisByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Image not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch analysis", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if analysis.UserID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "You don't own this image",
			"requestID": requestID,
		})
		return
	}

	ct := analysis.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	c.Data(http.StatusOK, ct, analysis.ImageData)
}
