// Package router resolves HTTP requests to handlers registered with path
// templates and composes per-route middleware chains around them.
//
// Path templates use `{name}` placeholders matching exactly one path
// component:
//
//	r := router.New[*router.Context]()
//	r.Get("/api/tasks/{id}", showTask, middleware.RequireAuth[*router.Context](authn))
//
// Templates are compiled to anchored patterns at registration time and
// matched by linear scan in registration order; the first structural match
// wins, so register specific routes before overlapping general ones.
// Trailing slashes are stripped from both templates and request paths
// (root `/` excepted). A request matching no route fails with ErrNotFound.
//
// Middleware listed on a route is folded right-to-left at registration, so
// the first-listed middleware runs first and explicitly decides whether to
// invoke the remainder of the chain. Router-level middleware added via Use
// wraps outside every per-route chain. Panics in handlers are recovered,
// wrapped in a PanicError, and routed to the configured error handler.
package router
