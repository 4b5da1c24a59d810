package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"imagelens/image-api/describe"
	"imagelens/image-api/model"
	"imagelens/image-api/store"
	"imagelens/image-api/validators"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// Upload runs the whole annotate-and-store workflow for one image.
// Either a complete Analysis row exists afterwards or nothing does
func (a *API) Upload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uint)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.FileValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ann, err := a.Vision.Annotate(c.Request.Context(), data)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to analyze image",
			"requestID": requestID,
		})

		zap.L().Error("Annotation request failed", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	description := describe.Compose(ann)

	id, err := gonanoid.New()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate analysis ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.Store.InsertAnalysis(c.Request.Context(), &model.Analysis{
		ID:          id,
		UserID:      userID,
		ImageData:   data,
		Description: description,
		ContentType: mimetype.Detect(data).String(),
		CreatedAt:   time.Now().Unix(),
	})
	if err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":     "Service temporarily unavailable, please try again",
				"requestID": requestID,
			})

			zap.L().Warn("Store unavailable during upload", zap.String("requestID", requestID))
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save analysis", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          id,
		"description": description,
	})
}
