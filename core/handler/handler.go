package handler

import "net/http"

// Response renders an HTTP response: it sets headers, the status code,
// and writes the body. Rendering errors bubble up to the router's error handler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc is a type-safe request handler with custom context support.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler converts an error raised during request processing into a response.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a handler to add cross-cutting behavior. A middleware
// decides whether to invoke next or to short-circuit with its own response.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
