package web

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	flashInfo  = "info"
	flashError = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func (s *Server) setFlash(c *gin.Context, level, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.FlashCookieName, level+"|"+msg, 60, "/", "", s.opts.SecureCookies, true)
}

// popFlash reads the pending notice, if any, and clears it.
func (s *Server) popFlash(c *gin.Context) *Flash {
	v, err := c.Cookie(common.FlashCookieName)
	if err != nil || v == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.FlashCookieName, "", -1, "/", "", s.opts.SecureCookies, true)

	level, msg, ok := strings.Cut(v, "|")
	if !ok {
		return &Flash{Level: flashInfo, Message: v}
	}
	return &Flash{Level: level, Message: msg}
}
