// Package csrf implements a session-bound double-submit check for
// state-changing requests. The expected token lives server-side in the
// session; clients echo it back in the X-CSRF-Token header or the _csrf
// form field. Comparison is constant-time.
package csrf

import (
	"crypto/subtle"
	"net/http"
)

const (
	// HeaderName is the request header carrying the CSRF token.
	HeaderName = "X-CSRF-Token"

	// FieldName is the form field carrying the CSRF token.
	// Checked only when the header is absent.
	FieldName = "_csrf"
)

// FromRequest extracts the submitted CSRF token. The header takes
// precedence over the form field; an empty string means no token
// was submitted.
func FromRequest(r *http.Request) string {
	if token := r.Header.Get(HeaderName); token != "" {
		return token
	}
	return r.PostFormValue(FieldName)
}

// Validate reports whether the submitted token matches the expected
// session token. Returns false when either side is empty so that a
// session without a token never validates.
func Validate(expected, submitted string) bool {
	if expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}
