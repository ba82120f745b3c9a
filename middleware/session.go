package middleware

import (
	"io"
	"log/slog"

	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/core/response"
	"github.com/dmitrymomot/clientportal/core/session"
)

type sessionKey struct{}

// SessionTransport loads sessions from incoming requests and persists them
// back, synchronizing whatever carrier it uses (cookie, header).
type SessionTransport interface {
	Load(handler.Context) (session.Session, error)
	Save(handler.Context, session.Session) error
}

// SessionConfig configures the session middleware.
type SessionConfig[C handler.Context] struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx C) bool
	// Transport loads and persists sessions
	Transport SessionTransport
	// Logger for structured logging (default: slog with io.Discard)
	Logger *slog.Logger
	// ErrorHandler defines the response for session persistence failures
	// (default: response.Error(response.ErrInternalServerError))
	ErrorHandler func(ctx C, err error) handler.Response
}

// Session creates middleware that loads the session from the transport,
// stores it in the request context, and persists it after the handler runs.
//
// Handlers read the session with GetSession and publish mutations back with
// SetSession; the middleware saves whatever session is in the context when
// the handler returns. The transport handles token rotation, cookie writing
// and revocation as part of Save.
func Session[C handler.Context](transport SessionTransport) handler.Middleware[C] {
	return SessionWithConfig(SessionConfig[C]{Transport: transport})
}

// SessionWithConfig creates a session middleware with custom configuration.
func SessionWithConfig[C handler.Context](cfg SessionConfig[C]) handler.Middleware[C] {
	if cfg.Transport == nil {
		panic("session middleware: transport is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx C, err error) handler.Response {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			sess, err := cfg.Transport.Load(ctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return response.Error(ctxErr)
				}
				cfg.Logger.ErrorContext(ctx, "failed to load session", "error", err)
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.SetValue(sessionKey{}, sess)

			resp := next(ctx)

			// The handler may have replaced the session in the context.
			current, ok := GetSession(ctx)
			if !ok {
				return resp
			}

			if err := cfg.Transport.Save(ctx, current); err != nil {
				cfg.Logger.ErrorContext(ctx, "failed to save session", "error", err)
				return cfg.ErrorHandler(ctx, err)
			}

			return resp
		}
	}
}

// GetSession retrieves the session from the request context.
// Returns the session and true if found, a zero session and false otherwise.
func GetSession(ctx handler.Context) (session.Session, bool) {
	if ctx == nil {
		return session.Session{}, false
	}

	if sess, ok := ctx.Value(sessionKey{}).(session.Session); ok {
		return sess, true
	}

	return session.Session{}, false
}

// MustGetSession retrieves the session from the context or panics if absent.
// Use only on routes guaranteed to run behind the Session middleware.
func MustGetSession(ctx handler.Context) session.Session {
	sess, ok := GetSession(ctx)
	if !ok {
		panic("session not found in context")
	}
	return sess
}

// SetSession publishes a mutated session back into the request context so the
// Session middleware persists it after the handler returns.
func SetSession(ctx handler.Context, sess session.Session) {
	ctx.SetValue(sessionKey{}, sess)
}
