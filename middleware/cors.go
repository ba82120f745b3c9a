package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/clientportal/core/handler"
)

// CORSConfig defines configuration options for the CORS middleware.
type CORSConfig struct {
	// Skip allows bypassing CORS handling for specific requests
	Skip func(ctx handler.Context) bool
	// AllowOrigins specifies allowed origins. Use "*" for all origins.
	// If empty, defaults to allowing all origins
	AllowOrigins []string
	// AllowMethods specifies allowed HTTP methods
	// (default: GET, HEAD, PUT, PATCH, POST, DELETE)
	AllowMethods []string
	// AllowHeaders specifies allowed request headers
	// (default: common headers including Content-Type and X-CSRF-Token)
	AllowHeaders []string
	// ExposeHeaders specifies which response headers are exposed to the client
	ExposeHeaders []string
	// AllowCredentials indicates whether cookies are allowed.
	// Never combined with wildcard origins
	AllowCredentials bool
	// MaxAge specifies how long preflight responses can be cached (seconds)
	MaxAge int
}

// CORS returns a CORS middleware allowing all origins without credentials.
// Portal deployments should use CORSWithConfig with explicit origins and
// AllowCredentials so the browser sends the session cookie.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig returns a CORS middleware with custom configuration.
// It answers preflight OPTIONS requests and decorates actual responses.
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}

	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept",
			"Content-Type",
			"Origin",
			"X-Request-ID",
			"X-CSRF-Token",
		}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	allowAll := len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			origin := req.Header.Get("Origin")

			allowedOrigin := ""
			switch {
			case allowAll:
				allowedOrigin = "*"
			case slices.Contains(cfg.AllowOrigins, origin):
				allowedOrigin = origin
			}

			isPreflight := req.Method == http.MethodOptions &&
				req.Header.Get("Access-Control-Request-Method") != ""

			if isPreflight {
				requestMethod := req.Header.Get("Access-Control-Request-Method")
				if allowedOrigin == "" || !slices.Contains(cfg.AllowMethods, requestMethod) {
					return func(w http.ResponseWriter, r *http.Request) error {
						w.WriteHeader(http.StatusForbidden)
						return nil
					}
				}

				return func(w http.ResponseWriter, r *http.Request) error {
					headers := w.Header()
					headers.Set("Access-Control-Allow-Origin", allowedOrigin)
					headers.Set("Access-Control-Allow-Methods", allowMethods)
					if req.Header.Get("Access-Control-Request-Headers") != "" {
						headers.Set("Access-Control-Allow-Headers", allowHeaders)
					}
					// Credentials are incompatible with wildcard origins per the CORS spec.
					if cfg.AllowCredentials && allowedOrigin != "*" {
						headers.Set("Access-Control-Allow-Credentials", "true")
					}
					if cfg.MaxAge > 0 {
						headers.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
					headers.Add("Vary", "Origin")
					headers.Add("Vary", "Access-Control-Request-Method")
					headers.Add("Vary", "Access-Control-Request-Headers")
					w.WriteHeader(http.StatusNoContent)
					return nil
				}
			}

			resp := next(ctx)

			if allowedOrigin == "" {
				return resp
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				headers := w.Header()
				headers.Set("Access-Control-Allow-Origin", allowedOrigin)
				if cfg.AllowCredentials && allowedOrigin != "*" {
					headers.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					headers.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
				headers.Add("Vary", "Origin")
				return resp(w, r)
			}
		}
	}
}
