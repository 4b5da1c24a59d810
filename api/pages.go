package api

import (
	"net/http"
	"strings"

	"imagelens/image-api/session"

	"github.com/gin-gonic/gin"
)

// Home renders the uploader page. Anonymous visitors get sent to the
// login page instead
func (a *API) Home(c *gin.Context) {
	if _, ok := session.UserID(c); !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.HTML(http.StatusOK, "index.html", nil)
}

func (a *API) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

func (a *API) LoginPage(c *gin.Context) {
	if _, ok := session.UserID(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "login.html", nil)
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// formError re-renders an HTML form with an error message for browser
// clients, and answers JSON for everything else. The HTML branch
// responds 200 so the form survives in place
func formError(c *gin.Context, template string, code int, msg string) {
	if wantsHTML(c) {
		c.HTML(http.StatusOK, template, gin.H{"error": msg})
		return
	}

	c.JSON(code, gin.H{
		"error":     msg,
		"requestID": c.GetString("requestID"),
	})
}
