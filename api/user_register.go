package api

import (
	"errors"
	"net/http"

	"imagelens/image-api/model"
	"imagelens/image-api/store"
	"imagelens/image-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (a *API) UserRegister(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		formError(c, "register.html", http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.UsernameValidator(data.Username); err != nil {
		formError(c, "register.html", http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		formError(c, "register.html", http.StatusBadRequest, err.Error())
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		formError(c, "register.html", http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()

	// Field-specific messages come from these lookups. The unique
	// columns below still catch concurrent registrations the checks
	// can't see
	if _, err := a.Store.FindByUsername(ctx, data.Username); err == nil {
		formError(c, "register.html", http.StatusConflict, "This username is already taken")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		formError(c, "register.html", http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to check username", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if _, err := a.Store.FindByEmail(ctx, data.Email); err == nil {
		formError(c, "register.html", http.StatusConflict, "This email is already registered. Please login or use a different email")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		formError(c, "register.html", http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to check email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		formError(c, "register.html", http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.Store.Insert(ctx, &model.User{
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// A concurrent registration won the race
			formError(c, "register.html", http.StatusConflict, "This username or email is already taken")
			return
		}

		formError(c, "register.html", http.StatusInternalServerError, "Internal server error")

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Account created, you can now log in",
	})
}
