package response_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clientportal/core/response"
)

type testContext struct {
	context.Context
	r *http.Request
	w http.ResponseWriter
}

func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(string) string                 { return "" }
func (c *testContext) SetValue(key, val any)               {}

func newTestContext() (*testContext, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return &testContext{Context: req.Context(), r: req, w: rec}, rec
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	err := response.JSON(map[string]string{"status": "ok"})(rec, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestJSONWithStatus(t *testing.T) {
	t.Parallel()

	t.Run("custom status", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)

		err := response.JSONWithStatus(map[string]string{"id": "1"}, http.StatusCreated)(rec, req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("no body for 204", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)

		err := response.JSONWithStatus(nil, http.StatusNoContent)(rec, req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWithHeaders(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	resp := response.WithHeaders(response.JSON(map[string]string{"ok": "1"}), map[string]string{
		"Retry-After": "42",
	})

	require.NoError(t, resp(rec, req))
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
}

func TestJSONErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("renders HTTPError as structured JSON", func(t *testing.T) {
		t.Parallel()

		ctx, rec := newTestContext()

		response.JSONErrorHandler(ctx, response.ErrUnauthorized.WithMessage("login required"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body["code"])
		assert.Equal(t, "login required", body["message"])
	})

	t.Run("wrapped HTTPError keeps its status", func(t *testing.T) {
		t.Parallel()

		ctx, rec := newTestContext()
		err := errors.Join(response.ErrUnprocessableEntity, errors.New("email is required"))

		response.JSONErrorHandler(ctx, err)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown errors become 500 without leaking detail", func(t *testing.T) {
		t.Parallel()

		ctx, rec := newTestContext()

		response.JSONErrorHandler(ctx, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "internal_server_error", body["code"])
	})
}

func TestError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	err := response.Error(response.ErrForbidden)(rec, req)

	var httpErr response.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}
