package sessiontransport

import (
	"github.com/dmitrymomot/clientportal/core/cookie"
	"github.com/dmitrymomot/clientportal/core/session"
)

// Config provides environment-based configuration for cookie-based session transport.
type Config struct {
	// CookieName is the name of the session cookie
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__session"`
}

// NewCookieFromConfig creates a cookie-based session transport from configuration.
// The session.Manager and cookie.Manager must be provided by the caller.
func NewCookieFromConfig(cfg Config, mgr *session.Manager, cookieMgr *cookie.Manager) *Cookie {
	name := cfg.CookieName
	if name == "" {
		name = "__session"
	}
	return NewCookie(mgr, cookieMgr, name)
}
