package api

import (
	"errors"
	"net/http"

	"imagelens/image-api/session"
	"imagelens/image-api/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type loginBody struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Remember bool   `json:"remember" form:"remember"`
}

func (a *API) UserLogin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		formError(c, "login.html", http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Username == "" {
		formError(c, "login.html", http.StatusBadRequest, "Username field can't be empty")
		return
	}

	if data.Password == "" {
		formError(c, "login.html", http.StatusBadRequest, "Password field can't be empty")
		return
	}

	user, err := a.Store.FindByUsername(c.Request.Context(), data.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same response as a wrong password, callers can't probe
			// which usernames exist
			formError(c, "login.html", http.StatusUnauthorized, "Invalid username or password")
			return
		}

		formError(c, "login.html", http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := a.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		formError(c, "login.html", http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		formError(c, "login.html", http.StatusUnauthorized, "Invalid username or password")
		return
	}

	// A plain session cookie dies with the browser, "remember"
	// stretches it to the configured number of days
	maxAge := 0
	if data.Remember {
		maxAge = viper.GetInt("session.remember_days") * 24 * 60 * 60
	}

	if err := session.SetUser(c, user.ID, maxAge); err != nil {
		formError(c, "login.html", http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to save session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userID": user.ID,
	})
}
