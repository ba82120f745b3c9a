package auth

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for any failed login: unknown
	// identity, inactive account, or wrong password. Callers must not
	// distinguish between these cases.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordMismatch is returned when the supplied current password
	// does not verify against the stored hash.
	ErrPasswordMismatch = errors.New("current password is incorrect")

	// ErrPasswordUnchanged is returned when the new password equals the
	// current one.
	ErrPasswordUnchanged = errors.New("new password must be different from current password")

	// ErrPasswordTooShort is returned when the new password is below the
	// minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrPasswordConfirmation is returned when the confirmation does not
	// match the new password.
	ErrPasswordConfirmation = errors.New("password confirmation does not match")
)
