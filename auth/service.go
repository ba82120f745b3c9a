package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length in runes.
const MinPasswordLength = 8

// Service implements credential verification and password management
// against a user Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for internal operations.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates an authentication service backed by the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Login verifies the credentials and returns the sanitized principal.
// Unknown identity, inactive account and wrong password all collapse
// into ErrInvalidCredentials so responses cannot be used to probe for
// registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (*Principal, error) {
	user, err := s.store.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a hash comparison so the miss takes as long as a mismatch.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user.Principal(), nil
}

// PrincipalByID reloads the user and returns its principal, or nil when
// the user no longer exists or was deactivated. A stale session never
// keeps a deactivated account signed in.
func (s *Service) PrincipalByID(ctx context.Context, id uuid.UUID) (*Principal, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, nil
	}

	return user.Principal(), nil
}

// RecordLogin stamps the user's last login time. Best effort: the caller
// treats failures as non-fatal.
func (s *Service) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return s.store.UpdateLastLogin(ctx, id)
}

// ChangePassword validates and applies a password change for the user.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next, confirm string) error {
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if next != confirm {
		return ErrPasswordConfirmation
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(next)) == nil {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.store.UpdatePassword(ctx, id, string(hash))
}

// dummyHash is a valid bcrypt hash used to equalize timing when the
// identity is unknown.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()
