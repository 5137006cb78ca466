package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie writes and clears the login cookie. Secure cookies are sent
// with SameSite=None so a frontend on another origin can use them.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (sc SessionCookie) Read(c *gin.Context) string {
	value, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return value
}

func (sc SessionCookie) Set(c *gin.Context, value string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(sc.sameSite())
	c.SetCookie(sc.Name, value, maxAge, "/", "", sc.Secure, true)
}

func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(sc.sameSite())
	c.SetCookie(sc.Name, "", -1, "/", "", sc.Secure, true)
}

func (sc SessionCookie) sameSite() http.SameSite {
	if sc.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
