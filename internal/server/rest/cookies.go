package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

// CookieManager writes the session cookies. Both cookies get the refresh
// lifetime as max-age so the refresh cookie outlives access renewals.
type CookieManager struct {
	secure bool
	domain string
	maxAge int
}

func NewCookieManager(secure bool, domain string, refreshLifetime time.Duration) *CookieManager {
	return &CookieManager{secure: secure, domain: domain, maxAge: int(refreshLifetime / time.Second)}
}

func (m *CookieManager) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, "/", m.domain, m.secure, true)
}

// SetSession writes both cookies.
func (m *CookieManager) SetSession(c *gin.Context, access, refresh string) {
	m.set(c, common.AccessTokenCookieName, access, m.maxAge)
	m.set(c, common.RefreshTokenCookieName, refresh, m.maxAge)
}

// SetAccess rewrites the access cookie after a transparent refresh.
func (m *CookieManager) SetAccess(c *gin.Context, access string) {
	m.set(c, common.AccessTokenCookieName, access, m.maxAge)
}

// Clear expires both cookies.
func (m *CookieManager) Clear(c *gin.Context) {
	m.set(c, common.AccessTokenCookieName, "", -1)
	m.set(c, common.RefreshTokenCookieName, "", -1)
}

// tokens reads both cookies; a missing cookie yields "".
func tokens(c *gin.Context) (access, refresh string) {
	access, _ = c.Cookie(common.AccessTokenCookieName)
	refresh, _ = c.Cookie(common.RefreshTokenCookieName)
	return access, refresh
}
