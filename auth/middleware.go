package auth

import (
	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/core/response"
	"github.com/dmitrymomot/clientportal/middleware"
)

type principalContextKey struct{}

// RequireAuth creates middleware that rejects unauthenticated requests.
//
// The principal is reloaded from the user store on every request, so a
// deactivated or deleted account loses access immediately even with a live
// session. The loaded principal is stored in the request context for
// downstream handlers. Requires the session middleware earlier in the chain.
func RequireAuth[C handler.Context](service *Service) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			sess, ok := middleware.GetSession(ctx)
			if !ok || !sess.IsAuthenticated() {
				return unauthenticated()
			}

			principal, err := service.PrincipalByID(ctx, sess.UserID)
			if err != nil {
				return response.Error(err)
			}
			if principal == nil {
				return unauthenticated()
			}

			ctx.SetValue(principalContextKey{}, principal)

			return next(ctx)
		}
	}
}

// RequireAdmin creates middleware that rejects non-admin principals.
// Must run after RequireAuth.
func RequireAdmin[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			principal, ok := GetPrincipal(ctx)
			if !ok {
				return unauthenticated()
			}

			if !principal.IsAdmin() {
				return response.Error(response.ErrForbidden.
					WithCode("forbidden").
					WithMessage("Admin access required."))
			}

			return next(ctx)
		}
	}
}

// GetPrincipal retrieves the authenticated principal from the request context.
func GetPrincipal(ctx handler.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*Principal)
	return principal, ok && principal != nil
}

func unauthenticated() handler.Response {
	return response.Error(response.ErrUnauthorized.
		WithCode("unauthenticated").
		WithMessage("Authentication required."))
}
