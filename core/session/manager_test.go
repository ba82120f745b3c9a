package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/clientportal/core/session"
)

// mockStore implements session.Store interface for testing
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetByID(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockStore) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func createValidSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(session.NewSessionParams{IP: "127.0.0.1"}, time.Hour)
	require.NoError(t, err)
	return &sess
}

func createExpiredSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(session.NewSessionParams{IP: "127.0.0.1"}, -time.Hour)
	require.NoError(t, err)
	return &sess
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("creates manager with correct configuration", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		ttl := 24 * time.Hour

		mgr := session.NewManager(store, ttl, 5*time.Minute)

		require.NotNil(t, mgr)
		assert.Equal(t, ttl, mgr.GetTTL())
	})
}

func TestManager_GetByToken(t *testing.T) {
	t.Parallel()

	t.Run("returns valid unexpired session", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		mgr := session.NewManager(store, time.Hour, 5*time.Minute)
		ctx := context.Background()

		validSession := createValidSession(t)
		store.On("GetByToken", ctx, validSession.Token).Return(validSession, nil)

		got, err := mgr.GetByToken(ctx, validSession.Token)

		require.NoError(t, err)
		assert.Equal(t, validSession.ID, got.ID)
		store.AssertExpectations(t)
	})

	t.Run("returns ErrExpired for expired session", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		mgr := session.NewManager(store, time.Hour, 5*time.Minute)
		ctx := context.Background()

		expired := createExpiredSession(t)
		store.On("GetByToken", ctx, expired.Token).Return(expired, nil)

		_, err := mgr.GetByToken(ctx, expired.Token)

		assert.ErrorIs(t, err, session.ErrExpired)
		store.AssertExpectations(t)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		mgr := session.NewManager(store, time.Hour, 5*time.Minute)
		ctx := context.Background()

		store.On("GetByToken", ctx, "missing").Return(nil, session.ErrNotFound)

		_, err := mgr.GetByToken(ctx, "missing")

		assert.ErrorIs(t, err, session.ErrNotFound)
		store.AssertExpectations(t)
	})
}

func TestManager_Store(t *testing.T) {
	t.Parallel()

	t.Run("saves modified session", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		mgr := session.NewManager(store, time.Hour, 5*time.Minute)
		ctx := context.Background()

		sess := createValidSession(t)
		store.On("Save", ctx, mock.AnythingOfType("*session.Session")).Return(nil)

		err := mgr.Store(ctx, *sess)

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("deletes session marked for deletion", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		mgr := session.NewManager(store, time.Hour, 5*time.Minute)
		ctx := context.Background()

		sess := createValidSession(t)
		sess.Logout()
		store.On("Delete", ctx, sess.ID).Return(nil)

		err := mgr.Store(ctx, *sess)

		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
		store.AssertExpectations(t)
	})

	t.Run("ignores not found on delete", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		mgr := session.NewManager(store, time.Hour, 5*time.Minute)
		ctx := context.Background()

		sess := createValidSession(t)
		sess.Logout()
		store.On("Delete", ctx, sess.ID).Return(session.ErrNotFound)

		err := mgr.Store(ctx, *sess)

		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
		store.AssertExpectations(t)
	})

	t.Run("wraps delete failures", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		mgr := session.NewManager(store, time.Hour, 5*time.Minute)
		ctx := context.Background()

		sess := createValidSession(t)
		sess.Logout()
		storeErr := errors.New("connection lost")
		store.On("Delete", ctx, sess.ID).Return(storeErr)

		err := mgr.Store(ctx, *sess)

		assert.ErrorIs(t, err, session.ErrDeleteSession)
		assert.ErrorIs(t, err, storeErr)
		store.AssertExpectations(t)
	})
}

func TestManager_CleanupExpired(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	mgr := session.NewManager(store, time.Hour, 5*time.Minute)
	ctx := context.Background()

	store.On("DeleteExpired", ctx).Return(int64(3), nil)

	require.NoError(t, mgr.CleanupExpired(ctx))
	store.AssertExpectations(t)
}
