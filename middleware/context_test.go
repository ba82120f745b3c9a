package middleware_test

import (
	"context"
	"net/http"
)

// testContext is a minimal handler.Context with working value storage.
type testContext struct {
	context.Context
	r      *http.Request
	w      http.ResponseWriter
	values map[any]any
}

func newTestContext(r *http.Request, w http.ResponseWriter) *testContext {
	return &testContext{
		Context: r.Context(),
		r:       r,
		w:       w,
		values:  make(map[any]any),
	}
}

func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(string) string                 { return "" }

func (c *testContext) SetValue(key, val any) {
	c.values[key] = val
}

func (c *testContext) Value(key any) any {
	if val, ok := c.values[key]; ok {
		return val
	}
	return c.Context.Value(key)
}
