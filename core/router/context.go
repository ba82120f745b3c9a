package router

import (
	"net/http"
	"time"
)

// Context is the default handler.Context implementation. Deadline, Done and
// Err delegate to the request's context; Value consults request-scoped values
// set via SetValue first.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
	values map[any]any
}

// newContext creates a request context carrying resolved path parameters.
func newContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{
		w:      w,
		r:      r,
		params: params,
	}
}

func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns the request-scoped value for key, falling back to the
// underlying request context.
func (c *Context) Value(key any) any {
	if c.values != nil {
		if val, ok := c.values[key]; ok {
			return val
		}
	}
	return c.r.Context().Value(key)
}

// Request returns the HTTP request.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the HTTP response writer.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter for the given key.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// SetValue stores a request-scoped value readable via Value.
func (c *Context) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}
