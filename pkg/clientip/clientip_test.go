package clientip_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/clientportal/pkg/clientip"
)

func request(remoteAddr string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestGetIP(t *testing.T) {
	t.Parallel()

	t.Run("falls back to remote addr", func(t *testing.T) {
		t.Parallel()
		req := request("203.0.113.5:4821", nil)
		assert.Equal(t, "203.0.113.5", clientip.GetIP(req))
	})

	t.Run("prefers cloudflare header", func(t *testing.T) {
		t.Parallel()
		req := request("10.0.0.1:80", map[string]string{
			"CF-Connecting-IP": "198.51.100.7",
			"X-Forwarded-For":  "192.0.2.1",
		})
		assert.Equal(t, "198.51.100.7", clientip.GetIP(req))
	})

	t.Run("takes leftmost forwarded-for entry", func(t *testing.T) {
		t.Parallel()
		req := request("10.0.0.1:80", map[string]string{
			"X-Forwarded-For": "192.0.2.1, 10.0.0.2, 10.0.0.3",
		})
		assert.Equal(t, "192.0.2.1", clientip.GetIP(req))
	})

	t.Run("skips invalid header values", func(t *testing.T) {
		t.Parallel()
		req := request("203.0.113.5:4821", map[string]string{
			"X-Forwarded-For": "not-an-ip",
		})
		assert.Equal(t, "203.0.113.5", clientip.GetIP(req))
	})

	t.Run("rejects unspecified address", func(t *testing.T) {
		t.Parallel()
		req := request("203.0.113.5:4821", map[string]string{
			"X-Real-IP": "0.0.0.0",
		})
		assert.Equal(t, "203.0.113.5", clientip.GetIP(req))
	})

	t.Run("handles ipv6", func(t *testing.T) {
		t.Parallel()
		req := request("[2001:db8::1]:443", nil)
		assert.Equal(t, "2001:db8::1", clientip.GetIP(req))
	})
}
