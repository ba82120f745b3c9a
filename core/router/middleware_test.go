package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/core/router"
)

// tracer returns a middleware that appends its name to trace before
// delegating to next.
func tracer(trace *[]string, name string) handler.Middleware[*router.Context] {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			*trace = append(*trace, name)
			return next(ctx)
		}
	}
}

// blocker returns a middleware that records its name and short-circuits
// without calling next.
func blocker(trace *[]string, name string, status int) handler.Middleware[*router.Context] {
	return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
		return func(ctx *router.Context) handler.Response {
			*trace = append(*trace, name)
			return func(w http.ResponseWriter, r *http.Request) error {
				w.WriteHeader(status)
				return nil
			}
		}
	}
}

func TestMiddlewareChain(t *testing.T) {
	t.Parallel()

	t.Run("executes in registration order then handler", func(t *testing.T) {
		t.Parallel()

		var trace []string
		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response {
			trace = append(trace, "H")
			return textResponse("ok")
		}, tracer(&trace, "A"), tracer(&trace, "B"), tracer(&trace, "C"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"A", "B", "C", "H"}, trace)
	})

	t.Run("short-circuit skips later middleware and handler", func(t *testing.T) {
		t.Parallel()

		var trace []string
		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response {
			trace = append(trace, "H")
			return textResponse("ok")
		}, tracer(&trace, "A"), blocker(&trace, "B", http.StatusForbidden), tracer(&trace, "C"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, []string{"A", "B"}, trace)
	})

	t.Run("router-level middleware wraps per-route chains", func(t *testing.T) {
		t.Parallel()

		var trace []string
		r := router.New[*router.Context]()
		r.Use(tracer(&trace, "outer"))
		r.Get("/", func(ctx *router.Context) handler.Response {
			trace = append(trace, "H")
			return textResponse("ok")
		}, tracer(&trace, "inner"))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []string{"outer", "inner", "H"}, trace)
	})

	t.Run("per-route middleware is isolated between routes", func(t *testing.T) {
		t.Parallel()

		var trace []string
		r := router.New[*router.Context]()
		r.Get("/guarded", func(ctx *router.Context) handler.Response {
			trace = append(trace, "guarded")
			return textResponse("ok")
		}, tracer(&trace, "guard"))
		r.Get("/open", func(ctx *router.Context) handler.Response {
			trace = append(trace, "open")
			return textResponse("ok")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))

		assert.Equal(t, []string{"open"}, trace)
	})
}
