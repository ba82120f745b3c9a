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

func textResponse(body string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(body))
		return err
	}
}

func TestRouterResolution(t *testing.T) {
	t.Parallel()

	t.Run("extracts named path parameters", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/tasks/{id}", func(ctx *router.Context) handler.Response {
			return textResponse("task:" + ctx.Param("id"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "task:42", rec.Body.String())
	})

	t.Run("extracts multiple parameters in order", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/projects/{project}/tasks/{task}", func(ctx *router.Context) handler.Response {
			return textResponse(ctx.Param("project") + "/" + ctx.Param("task"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/7/tasks/9", nil))

		assert.Equal(t, "7/9", rec.Body.String())
	})

	t.Run("returns 404 when no route matches", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/tasks/{id}", func(ctx *router.Context) handler.Response {
			return textResponse("ok")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns 404 on method mismatch", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/tasks", func(ctx *router.Context) handler.Response {
			return textResponse("ok")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tasks", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("strips trailing slash before matching", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/tasks", func(ctx *router.Context) handler.Response {
			return textResponse("list")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "list", rec.Body.String())
	})

	t.Run("root path still matches", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response {
			return textResponse("root")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "root", rec.Body.String())
	})

	t.Run("first registered match wins", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/tasks/latest", func(ctx *router.Context) handler.Response {
			return textResponse("latest")
		})
		r.Get("/tasks/{id}", func(ctx *router.Context) handler.Response {
			return textResponse("by-id:" + ctx.Param("id"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/latest", nil))
		assert.Equal(t, "latest", rec.Body.String())

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))
		assert.Equal(t, "by-id:42", rec.Body.String())
	})

	t.Run("parameter does not cross path segments", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/tasks/{id}", func(ctx *router.Context) handler.Response {
			return textResponse("ok")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/1/comments", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouterRegistration(t *testing.T) {
	t.Parallel()

	t.Run("panics on pattern without leading slash", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Get("tasks", func(ctx *router.Context) handler.Response {
				return textResponse("ok")
			})
		})
	})

	t.Run("panics on duplicate parameter name", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.Get("/a/{id}/b/{id}", func(ctx *router.Context) handler.Response {
				return textResponse("ok")
			})
		})
	})

	t.Run("panics on middleware after route registration", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/", func(ctx *router.Context) handler.Response {
			return textResponse("ok")
		})

		assert.Panics(t, func() {
			r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
				return next
			})
		})
	})

	t.Run("routes introspection preserves order", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/a", func(ctx *router.Context) handler.Response { return textResponse("a") })
		r.Post("/b", func(ctx *router.Context) handler.Response { return textResponse("b") })

		routes := r.Routes()
		require.Len(t, routes, 2)
		assert.Equal(t, router.Route{Method: http.MethodGet, Pattern: "/a"}, routes[0])
		assert.Equal(t, router.Route{Method: http.MethodPost, Pattern: "/b"}, routes[1])
	})
}

func TestRouterErrorHandling(t *testing.T) {
	t.Parallel()

	t.Run("recovers panics into error handler", func(t *testing.T) {
		t.Parallel()

		var captured error
		r := router.New[*router.Context](
			router.WithErrorHandler(func(ctx *router.Context, err error) {
				captured = err
				ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
			}),
		)
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			panic("kaboom")
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var panicErr router.PanicError
		require.ErrorAs(t, captured, &panicErr)
		assert.Equal(t, "kaboom", panicErr.Value())
	})

	t.Run("nil response reaches error handler", func(t *testing.T) {
		t.Parallel()

		var captured error
		r := router.New[*router.Context](
			router.WithErrorHandler(func(ctx *router.Context, err error) {
				captured = err
				ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
			}),
		)
		r.Get("/nil", func(ctx *router.Context) handler.Response {
			return nil
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nil", nil))

		assert.ErrorIs(t, captured, router.ErrNilResponse)
	})
}
