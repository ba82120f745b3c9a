package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/clientportal/integration/database/pg"
)

// PGStore implements Store on a PostgreSQL connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a PostgreSQL-backed user store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// querier runs queries on the transaction from the context when the caller
// started one, otherwise on the pool.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *PGStore) querier(ctx context.Context) querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

const userColumns = `id, client_id, name, email, role, password_hash, is_active, last_login_at, created_at, updated_at`

// GetByEmail returns the user with the given email.
func (s *PGStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.querier(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
	return scanUser(row)
}

// GetByID returns the user with the given ID.
func (s *PGStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.querier(ctx).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, id)
	return scanUser(row)
}

// UpdateLastLogin stamps the user's last successful login time.
func (s *PGStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := s.querier(ctx).Exec(ctx,
		`UPDATE users SET last_login_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("auth: update last login: %w", err)
	}
	return nil
}

// UpdatePassword replaces the user's password hash.
func (s *PGStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.querier(ctx).Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Healthcheck validates database connectivity.
func (s *PGStore) Healthcheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.ClientID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.PasswordHash,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: scan user: %w", err)
	}
	return &u, nil
}
