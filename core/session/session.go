package session

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session represents a client session, anonymous or authenticated.
type Session struct {
	// ID is the stable unique session identifier that never changes during the session lifecycle.
	ID uuid.UUID

	// Token is the cryptographically secure session token (32 bytes base64url).
	// Used as the cookie value; rotated on authentication to prevent fixation.
	Token string

	// UserID identifies the authenticated user (uuid.Nil for anonymous sessions).
	UserID uuid.UUID

	// CSRFToken is the session-bound anti-forgery token (32 bytes hex).
	// Rotated together with Token on authentication.
	CSRFToken string

	IP        string
	UserAgent string

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time

	// isModified tracks if the session needs saving
	isModified bool
}

// NewSessionParams contains parameters for creating a new session.
type NewSessionParams struct {
	IP        string
	UserAgent string
}

// New creates a new anonymous session with generated token, ID and CSRF token.
// The session is marked as modified and ready to be saved.
func New(params NewSessionParams, ttl time.Duration) (Session, error) {
	token, err := generateToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	csrfToken, err := generateCSRFToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session{
		ID:         uuid.New(),
		Token:      token,
		UserID:     uuid.Nil,
		CSRFToken:  csrfToken,
		IP:         params.IP,
		UserAgent:  params.UserAgent,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
		isModified: true,
	}, nil
}

// Authenticate marks the session as belonging to userID.
// Rotates both the session token and the CSRF token while preserving the
// session ID, so a token captured before login is useless afterwards.
func (s *Session) Authenticate(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidUserID
	}
	if err := s.rotateTokens(); err != nil {
		return err
	}
	s.UserID = userID
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Refresh rotates the session and CSRF tokens without changing authentication state.
func (s *Session) Refresh() error {
	if err := s.rotateTokens(); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	s.isModified = true
	return nil
}

// Logout marks the session for deletion by setting DeletedAt timestamp.
func (s *Session) Logout() {
	s.DeletedAt = time.Now()
	s.isModified = true
}

// Touch extends the session expiration if the touch interval has elapsed.
// This reduces write operations by only updating when sufficient time has passed.
func (s *Session) Touch(ttl, touchInterval time.Duration) {
	if time.Since(s.UpdatedAt) >= touchInterval {
		s.ExpiresAt = time.Now().Add(ttl)
		s.UpdatedAt = time.Now()
		s.isModified = true
	}
}

// IsAuthenticated returns true if the session has a valid user ID.
func (s Session) IsAuthenticated() bool {
	return s.UserID != uuid.Nil && s.Token != ""
}

// IsDeleted returns true if the session is marked for deletion.
func (s Session) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsModified returns true if the session has been modified and needs saving.
func (s Session) IsModified() bool {
	return s.isModified
}

// IsExpired returns true if the session has expired.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// rotateTokens generates fresh session and CSRF tokens while preserving the session ID.
func (s *Session) rotateTokens() error {
	token, err := generateToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	csrfToken, err := generateCSRFToken()
	if err != nil {
		return errors.Join(ErrTokenGeneration, err)
	}
	s.Token = token
	s.CSRFToken = csrfToken
	s.isModified = true
	return nil
}

// generateToken creates a cryptographically secure random token using 32 bytes (256 bits)
// encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// generateCSRFToken creates a 32-byte random token hex-encoded (64 characters).
func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
