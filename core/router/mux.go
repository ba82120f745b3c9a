package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/dmitrymomot/clientportal/core/handler"
)

// route is a single registered endpoint with its compiled matcher.
// The handler already carries the per-route middleware chain, folded in
// at registration time.
type route[C handler.Context] struct {
	method     string
	pattern    string
	re         *regexp.Regexp
	paramNames []string
	handler    handler.HandlerFunc[C]
}

// mux is the private implementation of Router.
type mux[C handler.Context] struct {
	routes       []*route[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	registered   bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	// Without a factory only the default *Context type is supported.
	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, params)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	path := normalizePath(r.URL.Path)
	rt, params := m.resolve(r.Method, path)

	ctx := m.newContext(ww, r, params)

	// Recover from panics to prevent server crashes.
	defer func() {
		if p := recover(); p != nil {
			panicErr := &panicError{
				value: p,
				stack: debug.Stack(),
			}

			if ww.Written() {
				// Too late for an error response, just log the panic.
				m.logger.Error("panic after response written",
					"value", panicErr.value,
					"stack", string(panicErr.stack),
					"path", r.URL.Path,
					"method", r.Method,
					"status", ww.Status(),
				)
			} else {
				m.errorHandler(ctx, panicErr)
			}
		}
	}()

	if rt == nil {
		m.errorHandler(ctx, ErrNotFound)
		return
	}

	fn := rt.handler
	if len(m.middlewares) > 0 {
		fn = chain(m.middlewares, fn)
	}

	response := fn(ctx)
	if response == nil {
		m.errorHandler(ctx, ErrNilResponse)
		return
	}

	if err := response(ww, r); err != nil {
		m.errorHandler(ctx, err)
		return
	}
}

// resolve scans registered routes in registration order and returns the
// first structural match for the method and path, with extracted params.
func (m *mux[C]) resolve(method, path string) (*route[C], map[string]string) {
	for _, rt := range m.routes {
		if rt.method != method {
			continue
		}

		match := rt.re.FindStringSubmatch(path)
		if match == nil {
			continue
		}

		var params map[string]string
		if len(rt.paramNames) > 0 {
			params = make(map[string]string, len(rt.paramNames))
			for i, name := range rt.paramNames {
				if i+1 < len(match) {
					params[name] = match[i+1]
				}
			}
		}

		return rt, params
	}

	return nil, nil
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C]) {
	m.handle(http.MethodGet, pattern, h, middlewares)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C]) {
	m.handle(http.MethodPost, pattern, h, middlewares)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C]) {
	m.handle(http.MethodPut, pattern, h, middlewares)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C]) {
	m.handle(http.MethodPatch, pattern, h, middlewares)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C]) {
	m.handle(http.MethodDelete, pattern, h, middlewares)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C]) {
	m.handle(http.MethodHead, pattern, h, middlewares)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C]) {
	m.handle(http.MethodOptions, pattern, h, middlewares)
}

// Use appends router-level middleware. Must run before route registration so
// the outer chain is identical for every route.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.registered {
		panic("router: all middlewares must be registered before routes")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// Routes returns all registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	routes := make([]Route, 0, len(m.routes))
	for _, rt := range m.routes {
		routes = append(routes, Route{Method: rt.method, Pattern: rt.pattern})
	}
	return routes
}

// handle compiles the pattern and appends the route. The per-route middleware
// chain is folded into the handler here, once, at registration time.
func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C], middlewares []handler.Middleware[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}
	if fn == nil {
		panic(fmt.Errorf("%w: '%s'", ErrNilHandler, pattern))
	}

	pattern = normalizePath(pattern)

	re, paramNames, err := compilePattern(pattern)
	if err != nil {
		panic(err)
	}

	h := fn
	if len(middlewares) > 0 {
		h = chain(middlewares, fn)
	}

	m.registered = true
	m.routes = append(m.routes, &route[C]{
		method:     method,
		pattern:    pattern,
		re:         re,
		paramNames: paramNames,
		handler:    h,
	})
}

// paramSegment matches a full `{name}` path segment.
var paramSegment = regexp.MustCompile(`^\{([a-zA-Z_][a-zA-Z0-9_]*)\}$`)

// compilePattern turns a path template into an anchored regexp. Literal
// segments are quoted; `{name}` segments match one path component each.
func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	var (
		b          strings.Builder
		paramNames []string
		seen       = make(map[string]bool)
	)

	b.WriteString("^")
	for _, segment := range strings.Split(pattern, "/")[1:] {
		b.WriteString("/")
		if match := paramSegment.FindStringSubmatch(segment); match != nil {
			name := match[1]
			if seen[name] {
				return nil, nil, fmt.Errorf("%w: '%s' in '%s'", ErrDuplicateParam, name, pattern)
			}
			seen[name] = true
			paramNames = append(paramNames, name)
			b.WriteString("([^/]+)")
			continue
		}
		b.WriteString(regexp.QuoteMeta(segment))
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: '%s': %w", ErrInvalidPattern, pattern, err)
	}

	return re, paramNames, nil
}

// normalizePath strips the trailing slash so `/tasks/` and `/tasks` resolve
// to the same route. Root stays as is.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
