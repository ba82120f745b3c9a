// Package middleware provides HTTP middleware for the cross-cutting concerns
// of the portal API: session loading and persistence, CSRF protection,
// request ID generation, client IP extraction, request logging, CORS, and
// security headers.
//
// All middleware follow the same pattern: a generic function over the
// handler.Context type, a Config struct for customization, a default
// constructor for common use, and context helpers for retrieving stored
// values.
//
// Typical chain:
//
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.ClientIP[*router.Context](),
//		middleware.LoggingWithLogger[*router.Context](log),
//		middleware.Session[*router.Context](sessionTransport),
//	)
//
//	protected := r.Group("/api/auth")
//	protected.Use(middleware.CSRF[*router.Context]())
package middleware
