package middleware

import (
	"maps"
	"net/http"

	"github.com/dmitrymomot/clientportal/core/handler"
)

// SecurityHeadersConfig configures the security headers middleware.
// Empty fields are omitted from responses.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// ContentTypeOptions controls the X-Content-Type-Options header
	ContentTypeOptions string
	// FrameOptions controls the X-Frame-Options header
	FrameOptions string
	// StrictTransportSecurity controls the Strict-Transport-Security header
	StrictTransportSecurity string
	// ReferrerPolicy controls the Referrer-Policy header
	ReferrerPolicy string
	// CustomHeaders are additional headers applied to every response
	CustomHeaders map[string]string
	// IsDevelopment disables HSTS for local environments without TLS
	IsDevelopment bool
}

// DefaultSecurity is a balanced configuration for a JSON API served to a
// browser SPA: no sniffing, no framing, HSTS, minimal referrer leakage.
var DefaultSecurity = SecurityHeadersConfig{
	ContentTypeOptions:      "nosniff",
	FrameOptions:            "DENY",
	StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	ReferrerPolicy:          "strict-origin-when-cross-origin",
}

// SecurityHeaders creates a security headers middleware with the default
// configuration.
func SecurityHeaders[C handler.Context]() handler.Middleware[C] {
	return SecurityHeadersWithConfig[C](DefaultSecurity)
}

// SecurityHeadersWithConfig creates a security headers middleware with custom
// configuration.
func SecurityHeadersWithConfig[C handler.Context](cfg SecurityHeadersConfig) handler.Middleware[C] {
	if cfg.IsDevelopment {
		cfg.StrictTransportSecurity = ""
	}

	headers := make(map[string]string)
	if cfg.ContentTypeOptions != "" {
		headers["X-Content-Type-Options"] = cfg.ContentTypeOptions
	}
	if cfg.FrameOptions != "" {
		headers["X-Frame-Options"] = cfg.FrameOptions
	}
	if cfg.StrictTransportSecurity != "" {
		headers["Strict-Transport-Security"] = cfg.StrictTransportSecurity
	}
	if cfg.ReferrerPolicy != "" {
		headers["Referrer-Policy"] = cfg.ReferrerPolicy
	}
	maps.Copy(headers, cfg.CustomHeaders)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				for key, value := range headers {
					w.Header().Set(key, value)
				}
				return resp(w, r)
			}
		}
	}
}
