package router

import "github.com/dmitrymomot/clientportal/core/handler"

// chain folds a middleware list around an endpoint. The list is applied in
// reverse so the first-listed middleware runs first and decides whether the
// rest of the chain executes at all.
func chain[C handler.Context](middlewares []handler.Middleware[C], endpoint handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
