package sessiontransport

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/clientportal/core/cookie"
	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/core/session"
	"github.com/dmitrymomot/clientportal/pkg/clientip"
)

// Cookie provides HTTP cookie-based session transport.
// It stores Session.Token as the cookie value (signed via cookie.Manager).
type Cookie struct {
	manager   *session.Manager
	cookieMgr *cookie.Manager
	name      string
}

// NewCookie creates a new cookie-based session transport.
func NewCookie(mgr *session.Manager, cookieMgr *cookie.Manager, name string) *Cookie {
	return &Cookie{
		manager:   mgr,
		cookieMgr: cookieMgr,
		name:      name,
	}
}

// Load session from cookie. Creates new anonymous session if no cookie is
// present, the signature is invalid, or the referenced session is gone.
// This provides graceful degradation, callers always get a valid session.
func (c *Cookie) Load(ctx handler.Context) (session.Session, error) {
	token, err := c.cookieMgr.GetSigned(ctx.Request(), c.name)
	if err != nil {
		return c.newSession(ctx)
	}

	sess, err := c.manager.GetByToken(ctx, token)
	if err != nil {
		return c.newSession(ctx)
	}

	return sess, nil
}

// Save persists the session to the store and synchronizes the cookie.
// A session marked for deletion is removed from the store and its cookie revoked.
func (c *Cookie) Save(ctx handler.Context, sess session.Session) error {
	err := c.manager.Store(ctx, sess)
	if errors.Is(err, session.ErrNotAuthenticated) {
		c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
		return nil
	}
	if err != nil {
		return err
	}

	return c.writeCookie(ctx, sess)
}

// Authenticate upgrades the current session to the given user.
// The session token is rotated and the new token written to the cookie,
// so any token captured before login stops working.
func (c *Cookie) Authenticate(ctx handler.Context, userID uuid.UUID) (session.Session, error) {
	sess, err := c.Load(ctx)
	if err != nil {
		return session.Session{}, err
	}

	if err := sess.Authenticate(userID); err != nil {
		return session.Session{}, err
	}

	if err := c.manager.Store(ctx, sess); err != nil {
		return session.Session{}, err
	}

	if err := c.writeCookie(ctx, sess); err != nil {
		return session.Session{}, err
	}

	return sess, nil
}

// Logout deletes the current session from the store and revokes the cookie.
// Safe to call for anonymous sessions.
func (c *Cookie) Logout(ctx handler.Context) error {
	sess, err := c.Load(ctx)
	if err != nil {
		return err
	}

	sess.Logout()
	if err := c.manager.Store(ctx, sess); err != nil && !errors.Is(err, session.ErrNotAuthenticated) {
		return err
	}

	c.cookieMgr.Delete(ctx.ResponseWriter(), c.name)
	return nil
}

func (c *Cookie) newSession(ctx handler.Context) (session.Session, error) {
	return session.New(session.NewSessionParams{
		IP:        clientip.GetIP(ctx.Request()),
		UserAgent: ctx.Request().Header.Get("User-Agent"),
	}, c.manager.GetTTL())
}

func (c *Cookie) writeCookie(ctx handler.Context, sess session.Session) error {
	until := time.Until(sess.ExpiresAt)
	if until <= 0 {
		return ErrExpiredSession
	}

	return c.cookieMgr.SetSigned(ctx.ResponseWriter(), c.name, sess.Token,
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
		cookie.WithMaxAge(int(until.Seconds())),
	)
}
