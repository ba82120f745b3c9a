package auth

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/clientportal/core/handler"
	"github.com/dmitrymomot/clientportal/core/response"
	"github.com/dmitrymomot/clientportal/middleware"
	"github.com/dmitrymomot/clientportal/pkg/clientip"
	"github.com/dmitrymomot/clientportal/pkg/throttle"
)

const (
	maxEmailLength    = 190
	maxPasswordLength = 255
)

// Handler serves the authentication endpoints of the portal API.
// All routes must run behind the session middleware.
type Handler[C handler.Context] struct {
	service *Service
	guard   *throttle.Guard
	logger  *slog.Logger
}

// NewHandler creates an authentication handler. A nil logger discards output.
func NewHandler[C handler.Context](service *Service, guard *throttle.Guard, logger *slog.Logger) *Handler[C] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler[C]{
		service: service,
		guard:   guard,
		logger:  logger,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user with email and password.
//
// The throttle guard is consulted before credentials are checked and a failed
// attempt is recorded before the uniform 401 is returned, so the lockout
// counter advances regardless of why authentication failed. On success the
// lockout history for this identity is cleared, the session is upgraded with
// fresh tokens, and the new CSRF token is returned alongside the user.
func (h *Handler[C]) Login(ctx C) handler.Response {
	creds, errResp := decodeCredentials(ctx.Request())
	if errResp != nil {
		return errResp
	}

	origin := requestOrigin(ctx)

	until := h.guard.BlockedUntil(ctx, creds.Email, origin)
	if until.After(time.Now()) {
		return tooManyAttempts(until)
	}

	principal, err := h.service.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.guard.RecordFailure(ctx, creds.Email, origin)
			return response.Error(response.ErrUnauthorized.
				WithCode("invalid_credentials").
				WithMessage("Invalid email or password."))
		}
		return response.Error(err)
	}

	h.guard.Clear(ctx, creds.Email, origin)

	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return response.Error(response.ErrInternalServerError)
	}
	if err := sess.Authenticate(principal.ID); err != nil {
		return response.Error(err)
	}
	middleware.SetSession(ctx, sess)

	if err := h.service.RecordLogin(ctx, principal.ID); err != nil {
		h.logger.WarnContext(ctx, "failed to record login time",
			"error", err, "user_id", principal.ID)
	}

	return response.JSON(map[string]any{
		"data": map[string]any{
			"user":       principal,
			"csrf_token": sess.CSRFToken,
		},
	})
}

// Logout terminates the current session. The session middleware deletes the
// session from the store and revokes the cookie when it persists the
// logged-out session.
func (h *Handler[C]) Logout(ctx C) handler.Response {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return response.Error(response.ErrInternalServerError)
	}

	sess.Logout()
	middleware.SetSession(ctx, sess)

	return response.JSON(map[string]any{
		"data": map[string]any{"logged_out": true},
	})
}

// Me returns the current user, or null for anonymous sessions. It never
// fails with 401 so the SPA can probe authentication state on startup.
func (h *Handler[C]) Me(ctx C) handler.Response {
	sess, ok := middleware.GetSession(ctx)
	if !ok || !sess.IsAuthenticated() {
		return userResponse(nil)
	}

	principal, err := h.service.PrincipalByID(ctx, sess.UserID)
	if err != nil {
		return response.Error(err)
	}

	return userResponse(principal)
}

// CSRFToken returns the token bound to the current session. Calling it on a
// fresh visit creates and persists an anonymous session so the SPA can obtain
// a token before the first login attempt.
func (h *Handler[C]) CSRFToken(ctx C) handler.Response {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return response.Error(response.ErrInternalServerError)
	}

	return response.JSON(map[string]any{
		"data": map[string]any{"csrf_token": sess.CSRFToken},
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword updates the password of the authenticated user.
// Requires RequireAuth in the middleware chain.
func (h *Handler[C]) ChangePassword(ctx C) handler.Response {
	principal, ok := GetPrincipal(ctx)
	if !ok {
		return unauthenticated()
	}

	var req changePasswordRequest
	if err := decodeJSON(ctx.Request(), &req); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	err := h.service.ChangePassword(ctx, principal.ID,
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		if field, message, ok := passwordValidationError(err); ok {
			return validationError(map[string]string{field: message})
		}
		return response.Error(err)
	}

	return response.JSON(map[string]any{
		"data": map[string]any{"password_changed": true},
	})
}

func passwordValidationError(err error) (field, message string, ok bool) {
	switch {
	case errors.Is(err, ErrPasswordTooShort):
		return "new_password", "The password must be at least 8 characters.", true
	case errors.Is(err, ErrPasswordConfirmation):
		return "confirm_password", "The password confirmation does not match.", true
	case errors.Is(err, ErrPasswordUnchanged):
		return "new_password", "The new password must differ from the current one.", true
	case errors.Is(err, ErrPasswordMismatch):
		return "current_password", "The current password is incorrect.", true
	}
	return "", "", false
}

func decodeCredentials(r *http.Request) (credentials, handler.Response) {
	var creds credentials

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := decodeJSON(r, &creds); err != nil {
			return creds, response.Error(response.ErrBadRequest.WithError(err))
		}
	} else {
		creds.Email = r.PostFormValue("email")
		creds.Password = r.PostFormValue("password")
	}

	creds.Email = strings.TrimSpace(creds.Email)

	// Only presence and length are validated here. A malformed identity still
	// reaches the throttle guard and accrues lockout state like any other
	// failed attempt.
	fields := make(map[string]string)
	switch {
	case creds.Email == "":
		fields["email"] = "The email field is required."
	case utf8.RuneCountInString(creds.Email) > maxEmailLength:
		fields["email"] = "The email is too long."
	}
	switch {
	case creds.Password == "":
		fields["password"] = "The password field is required."
	case utf8.RuneCountInString(creds.Password) > maxPasswordLength:
		fields["password"] = "The password is too long."
	}

	if len(fields) > 0 {
		return creds, validationError(fields)
	}

	return creds, nil
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func validationError(fields map[string]string) handler.Response {
	details := make(map[string]any, len(fields))
	for field, message := range fields {
		details[field] = message
	}
	return response.Error(response.ErrUnprocessableEntity.
		WithCode("validation_error").
		WithMessage("The given data was invalid.").
		WithDetails(details))
}

func tooManyAttempts(until time.Time) handler.Response {
	secs := int(throttle.RetryAfter(until) / time.Second)
	return response.WithHeaders(
		response.Error(response.ErrTooManyRequests.
			WithCode("too_many_attempts").
			WithMessage("Too many login attempts. Please try again later.").
			WithDetails(map[string]any{"retry_after_seconds": secs})),
		map[string]string{"Retry-After": strconv.Itoa(secs)},
	)
}

func userResponse(principal *Principal) handler.Response {
	var user any
	if principal != nil {
		user = principal
	}
	return response.JSON(map[string]any{
		"data": map[string]any{"user": user},
	})
}

func requestOrigin(ctx handler.Context) string {
	if ip, ok := middleware.GetClientIP(ctx); ok {
		return ip
	}
	return clientip.GetIP(ctx.Request())
}
