// Package handler defines the request-processing primitives shared by the
// router and middleware packages: a Response function that renders the HTTP
// reply, a generic HandlerFunc parameterized over a request Context, and a
// Middleware type for composable cross-cutting checks.
//
// Handlers return a Response instead of writing directly, which keeps
// response rendering separate from request handling and lets middleware
// decorate the response after the handler has run:
//
//	func me(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]any{"ok": true})
//	}
//
// Custom context types implement the Context interface and are threaded
// through the router via its context factory option.
package handler
