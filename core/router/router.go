package router

import (
	"net/http"

	"github.com/dmitrymomot/clientportal/core/handler"
)

// Router resolves inbound requests to registered handlers and runs each
// matched handler through its middleware chain.
//
// Routes are matched by linear scan in registration order: the first route
// whose method and compiled pattern match the request wins. Register more
// specific patterns before overlapping general ones.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	Get(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C])
	Post(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C])
	Put(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C])
	Patch(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C])
	Delete(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C])
	Head(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C])
	Options(pattern string, h handler.HandlerFunc[C], middlewares ...handler.Middleware[C])

	// Use appends router-level middleware running before any per-route chain.
	// Must be called before route registration.
	Use(middlewares ...handler.Middleware[C])
}

// Routes provides route introspection for debugging and monitoring.
type Routes interface {
	Routes() []Route
}

// Route describes a registered route.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
