package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/middleware"
)

func TestClientIP_StoresForwardedIP(t *testing.T) {
	t.Parallel()

	var fromContext string
	h := middleware.ClientIP[*testContext]()(func(ctx *testContext) handler.Response {
		ip, ok := middleware.GetClientIP(ctx)
		require.True(t, ok)
		fromContext = ip
		return func(w http.ResponseWriter, r *http.Request) error { return nil }
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	require.NoError(t, h(newTestContext(req, rec))(rec, req))

	assert.Equal(t, "203.0.113.7", fromContext)
}

func TestClientIP_StoreInHeader(t *testing.T) {
	t.Parallel()

	h := middleware.ClientIPWithConfig[*testContext](middleware.ClientIPConfig{
		StoreInHeader: true,
	})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	rec := httptest.NewRecorder()
	require.NoError(t, h(newTestContext(req, rec))(rec, req))

	assert.Equal(t, "192.0.2.10", rec.Header().Get("X-Client-IP"))
}
