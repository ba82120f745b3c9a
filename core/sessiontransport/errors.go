package sessiontransport

import "errors"

var (
	// ErrNoToken is returned when no session token is present in the request.
	ErrNoToken = errors.New("sessiontransport: no token")

	// ErrExpiredSession is returned when trying to write a cookie for an already expired session.
	ErrExpiredSession = errors.New("sessiontransport: session already expired")
)
