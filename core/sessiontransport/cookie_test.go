package sessiontransport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clientportal/core/cookie"
	"github.com/dmitrymomot/clientportal/core/session"
	"github.com/dmitrymomot/clientportal/core/sessiontransport"
)

// testContext is a minimal handler.Context for exercising the transport.
type testContext struct {
	context.Context
	r *http.Request
	w http.ResponseWriter
}

func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(string) string                 { return "" }
func (c *testContext) SetValue(key, val any)               {}

func newTestContext(r *http.Request, w http.ResponseWriter) *testContext {
	return &testContext{Context: r.Context(), r: r, w: w}
}

func newTransport(t *testing.T) (*sessiontransport.Cookie, *session.MemoryStore, *cookie.Manager) {
	t.Helper()

	cookieMgr, err := cookie.New([]string{"test-secret-key-needs-32-or-more-chars"})
	require.NoError(t, err)

	store := session.NewMemoryStore()
	mgr := session.NewManager(store, time.Hour, 5*time.Minute)

	return sessiontransport.NewCookie(mgr, cookieMgr, "__session"), store, cookieMgr
}

// carryCookies copies Set-Cookie output into a fresh request.
func carryCookies(rec *httptest.ResponseRecorder, req *http.Request) *http.Request {
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestCookie_LoadCreatesAnonymousSession(t *testing.T) {
	t.Parallel()

	transport, _, _ := newTransport(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()

	sess, err := transport.Load(newTestContext(req, rec))

	require.NoError(t, err)
	assert.False(t, sess.IsAuthenticated())
	assert.NotEmpty(t, sess.Token)
	assert.NotEmpty(t, sess.CSRFToken)
	assert.Equal(t, "test-agent", sess.UserAgent)
}

func TestCookie_SaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	transport, _, _ := newTransport(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := newTestContext(req, rec)

	sess, err := transport.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, transport.Save(ctx, sess))

	next := carryCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	loaded, err := transport.Load(newTestContext(next, httptest.NewRecorder()))

	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, sess.CSRFToken, loaded.CSRFToken)
}

func TestCookie_TamperedCookieYieldsFreshSession(t *testing.T) {
	t.Parallel()

	transport, _, _ := newTransport(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := newTestContext(req, rec)

	sess, err := transport.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, transport.Save(ctx, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	raw := rec.Result().Cookies()[0]
	raw.Value = "tampered" + raw.Value
	next.AddCookie(raw)

	loaded, err := transport.Load(newTestContext(next, httptest.NewRecorder()))

	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, loaded.ID)
}

func TestCookie_AuthenticateRotatesToken(t *testing.T) {
	t.Parallel()

	transport, _, _ := newTransport(t)

	// Establish anonymous session first.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := newTestContext(req, rec)
	anon, err := transport.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, transport.Save(ctx, anon))

	// Login with the anonymous cookie.
	loginReq := carryCookies(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	loginRec := httptest.NewRecorder()
	userID := uuid.New()

	authed, err := transport.Authenticate(newTestContext(loginReq, loginRec), userID)

	require.NoError(t, err)
	assert.Equal(t, anon.ID, authed.ID)
	assert.Equal(t, userID, authed.UserID)
	assert.NotEqual(t, anon.Token, authed.Token)
	assert.NotEqual(t, anon.CSRFToken, authed.CSRFToken)

	// The pre-login cookie must no longer resolve to the authenticated session.
	staleReq := carryCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	stale, err := transport.Load(newTestContext(staleReq, httptest.NewRecorder()))
	require.NoError(t, err)
	assert.False(t, stale.IsAuthenticated())

	// The post-login cookie resolves to the authenticated session.
	freshReq := carryCookies(loginRec, httptest.NewRequest(http.MethodGet, "/", nil))
	fresh, err := transport.Load(newTestContext(freshReq, httptest.NewRecorder()))
	require.NoError(t, err)
	assert.Equal(t, userID, fresh.UserID)
}

func TestCookie_Logout(t *testing.T) {
	t.Parallel()

	transport, store, _ := newTransport(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ctx := newTestContext(req, rec)
	anon, err := transport.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, transport.Save(ctx, anon))

	loginReq := carryCookies(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	loginRec := httptest.NewRecorder()
	authed, err := transport.Authenticate(newTestContext(loginReq, loginRec), uuid.New())
	require.NoError(t, err)

	logoutReq := carryCookies(loginRec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	logoutRec := httptest.NewRecorder()
	require.NoError(t, transport.Logout(newTestContext(logoutReq, logoutRec)))

	// Session removed from store.
	_, err = store.GetByID(context.Background(), authed.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Cookie revoked.
	cookies := logoutRec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[len(cookies)-1].MaxAge)
}

func TestCookie_LogoutAnonymousIsSafe(t *testing.T) {
	t.Parallel()

	transport, _, _ := newTransport(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	assert.NoError(t, transport.Logout(newTestContext(req, rec)))
}
