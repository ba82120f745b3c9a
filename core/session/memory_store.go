package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store using in-memory storage.
// Suitable for single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Session
	byToken map[string]uuid.UUID

	// Configuration
	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger

	// State management
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	// Observability metrics
	sessionsSaved   atomic.Int64
	sessionsRemoved atomic.Int64
}

// MemoryStoreStats provides observability metrics for monitoring and debugging.
type MemoryStoreStats struct {
	SessionsSaved   int64 // Total number of save operations
	SessionsRemoved int64 // Total number of sessions deleted or expired
	ActiveSessions  int   // Current number of stored sessions
	IsRunning       bool  // Whether the cleanup goroutine is running
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for removing expired sessions.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithMemoryStoreShutdownTimeout sets the graceful shutdown timeout.
func WithMemoryStoreShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

// WithMemoryStoreLogger sets the logger for internal operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore creates a new in-memory session store.
// Call Start() to begin background cleanup of expired sessions.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		byID:            make(map[uuid.UUID]*Session),
		byToken:         make(map[string]uuid.UUID),
		cleanupInterval: 5 * time.Minute,
		shutdownTimeout: 30 * time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(ms)
	}

	return ms
}

// GetByID retrieves a session by its stable identifier.
func (ms *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	sess, ok := ms.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *sess
	return &copied, nil
}

// GetByToken retrieves a session by its opaque token.
func (ms *MemoryStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	id, ok := ms.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	sess, ok := ms.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *sess
	return &copied, nil
}

// Save stores or updates a session, reindexing the token if it was rotated.
func (ms *MemoryStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrSaveSession
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if prev, ok := ms.byID[session.ID]; ok && prev.Token != session.Token {
		delete(ms.byToken, prev.Token)
	}

	copied := *session
	ms.byID[session.ID] = &copied
	ms.byToken[session.Token] = session.ID
	ms.sessionsSaved.Add(1)
	return nil
}

// Delete removes a session by ID.
func (ms *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	sess, ok := ms.byID[id]
	if !ok {
		return ErrNotFound
	}

	delete(ms.byToken, sess.Token)
	delete(ms.byID, id)
	ms.sessionsRemoved.Add(1)
	return nil
}

// DeleteExpired removes all expired sessions and returns how many were deleted.
func (ms *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var removed int64
	for id, sess := range ms.byID {
		if sess.IsExpired() {
			delete(ms.byToken, sess.Token)
			delete(ms.byID, id)
			removed++
		}
	}

	if removed > 0 {
		ms.sessionsRemoved.Add(removed)
	}
	return removed, nil
}

// Start begins the background cleanup goroutine. This is a blocking operation
// that runs until the context is cancelled. Use Run() for errgroup pattern or
// call this in a goroutine.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return fmt.Errorf("session memory store already started")
	}

	if ms.cleanupInterval <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("cleanup interval must be > 0, got %v (use WithCleanupInterval to configure)", ms.cleanupInterval)
	}

	ms.ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.running.Store(true)
	defer ms.running.Store(false)

	ms.logger.InfoContext(ms.ctx, "session memory store cleanup started",
		slog.Duration("cleanup_interval", ms.cleanupInterval))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.ctx.Done():
			ms.logger.InfoContext(context.Background(), "session memory store cleanup stopping")
			return ms.ctx.Err()
		case <-ticker.C:
			ms.cleanupWithWait()
		}
	}
}

// Stop gracefully shuts down the background cleanup with a timeout.
// Returns an error if the shutdown timeout is exceeded.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return fmt.Errorf("session memory store not started")
	}

	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), ms.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ms.logger.InfoContext(context.Background(), "session memory store stopped cleanly")
		return nil
	case <-ctx.Done():
		ms.logger.WarnContext(context.Background(), "session memory store shutdown timeout exceeded",
			slog.Duration("timeout", ms.shutdownTimeout))
		return fmt.Errorf("shutdown timeout exceeded after %s", ms.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the cleanup, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = ms.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// cleanupWithWait wraps DeleteExpired so Stop can wait for in-flight cleanup.
func (ms *MemoryStore) cleanupWithWait() {
	ms.mu.RLock()
	if ms.cancel == nil {
		ms.mu.RUnlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.RUnlock()

	defer ms.wg.Done()
	if _, err := ms.DeleteExpired(context.Background()); err != nil {
		ms.logger.ErrorContext(context.Background(), "session cleanup failed",
			slog.String("error", err.Error()))
	}
}

// Stats returns current memory store statistics for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.RLock()
	isRunning := ms.cancel != nil
	active := len(ms.byID)
	ms.mu.RUnlock()

	return MemoryStoreStats{
		SessionsSaved:   ms.sessionsSaved.Load(),
		SessionsRemoved: ms.sessionsRemoved.Load(),
		ActiveSessions:  active,
		IsRunning:       isRunning,
	}
}

// Healthcheck validates that the memory store is operational.
// Returns nil if healthy, or an error describing the health issue.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	stats := ms.Stats()

	if ms.cleanupInterval > 0 && !stats.IsRunning {
		return fmt.Errorf("cleanup is configured but not running")
	}

	return nil
}
