package response

import (
	"net/http"

	"github.com/dmitrymomot/clientportal/core/handler"
)

// Error returns a handler response that propagates the given error.
// The error surfaces in the router's error handler, which renders
// the matching HTTP error response.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
