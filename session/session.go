// Package session holds the cookie-session helpers used by the login
// flow and the auth middleware
package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const userKey = "user_id"

// CookieName is also cleared directly on logout so the browser drops
// the session immediately
const CookieName = "imagelens_session"

func SetUser(c *gin.Context, userID uint, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	s.Set(userKey, userID)
	return s.Save()
}

// UserID returns the logged-in user's ID, or false when the request
// carries no valid session
func UserID(c *gin.Context) (uint, bool) {
	s := sessions.Default(c)

	obj := s.Get(userKey)
	if obj == nil {
		return 0, false
	}

	id, ok := obj.(uint)
	if !ok {
		return 0, false
	}

	return id, true
}

func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}

	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	return nil
}
