package middleware

import (
	"net/http"

	"github.com/dmitrymomot/clientportal/core/csrf"
	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/core/response"
)

// CSRFConfig configures the CSRF protection middleware.
type CSRFConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// ErrorHandler defines the response for token mismatches
	// (default: 403 with code "csrf_mismatch")
	ErrorHandler func(ctx C) handler.Response
}

// CSRF creates middleware that validates the session-bound CSRF token on
// state-changing requests. Safe methods (GET, HEAD, OPTIONS) pass through.
//
// The submitted token is read from the X-CSRF-Token header or the _csrf form
// field and compared in constant time against the token stored in the
// session. Requires the Session middleware earlier in the chain.
func CSRF[C handler.Context]() handler.Middleware[C] {
	return CSRFWithConfig(CSRFConfig[C]{})
}

// CSRFWithConfig creates a CSRF protection middleware with custom configuration.
func CSRFWithConfig[C handler.Context](cfg CSRFConfig[C]) handler.Middleware[C] {
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C) handler.Response {
			return response.Error(response.ErrForbidden.
				WithCode("csrf_mismatch").
				WithMessage("CSRF token mismatch."))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			switch ctx.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(ctx)
			}

			sess, ok := GetSession(ctx)
			if !ok {
				return cfg.ErrorHandler(ctx)
			}

			submitted := csrf.FromRequest(ctx.Request())
			if !csrf.Validate(sess.CSRFToken, submitted) {
				return cfg.ErrorHandler(ctx)
			}

			return next(ctx)
		}
	}
}
