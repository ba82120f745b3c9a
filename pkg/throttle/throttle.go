package throttle

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Guard enforces the login throttle policy against a Store.
type Guard struct {
	store       Store
	window      time.Duration
	maxAttempts int
	lockout     time.Duration
	logger      *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger sets the logger used for reporting store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// New creates a Guard with default configuration.
func New(store Store, opts ...Option) *Guard {
	return NewFromConfig(store, Config{}, opts...)
}

// NewFromConfig creates a Guard from configuration. Zero values get
// defaults; values below the minimum floors are raised.
func NewFromConfig(store Store, cfg Config, opts ...Option) *Guard {
	cfg = cfg.normalize()
	g := &Guard{
		store:       store,
		window:      cfg.Window,
		maxAttempts: cfg.MaxAttempts,
		lockout:     cfg.Lockout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// BlockedUntil returns the latest lockout deadline across the identity,
// origin and combination keys. A zero time, or any time not after now,
// means the attempt may proceed. Store errors fail open and are logged.
func (g *Guard) BlockedUntil(ctx context.Context, identity, origin string) time.Time {
	var latest time.Time
	for _, key := range g.keys(identity, origin) {
		state, err := g.store.Get(ctx, key)
		if err != nil {
			g.logger.ErrorContext(ctx, "throttle store read failed, failing open",
				slog.String("error", err.Error()))
			continue
		}
		if state.BlockedUntil.After(latest) {
			latest = state.BlockedUntil
		}
	}
	return latest
}

// Blocked reports whether the attempt is currently locked out.
func (g *Guard) Blocked(ctx context.Context, identity, origin string) bool {
	return g.BlockedUntil(ctx, identity, origin).After(g.now())
}

// RecordFailure registers a failed login under all three keys. Each key
// keeps only attempts inside the sliding window; reaching the attempt
// threshold places a lockout. An existing later lockout is never
// shortened. Store errors are logged and otherwise ignored.
func (g *Guard) RecordFailure(ctx context.Context, identity, origin string) {
	now := g.now()
	// State older than window+lockout cannot influence any decision.
	retention := g.window + g.lockout

	for _, key := range g.keys(identity, origin) {
		err := g.store.Update(ctx, key, retention, func(state State) State {
			state = state.prune(now, g.window)
			state.Attempts = append(state.Attempts, now)

			if len(state.Attempts) >= g.maxAttempts {
				if deadline := now.Add(g.lockout); deadline.After(state.BlockedUntil) {
					state.BlockedUntil = deadline
				}
			}
			return state
		})
		if err != nil {
			g.logger.ErrorContext(ctx, "throttle store write failed, failing open",
				slog.String("error", err.Error()))
		}
	}
}

// Clear removes throttle state after a successful login. Only the
// identity and combination keys are cleared; the origin key keeps its
// history so failures from one address keep counting across identities.
func (g *Guard) Clear(ctx context.Context, identity, origin string) {
	err := g.store.Delete(ctx, identityKey(identity), comboKey(identity, origin))
	if err != nil {
		g.logger.ErrorContext(ctx, "throttle store delete failed",
			slog.String("error", err.Error()))
	}
}

func (g *Guard) keys(identity, origin string) [3]string {
	return [3]string{
		identityKey(identity),
		originKey(origin),
		comboKey(identity, origin),
	}
}

// RetryAfter converts a lockout deadline into a client-facing wait,
// rounded up and never below one second.
func RetryAfter(blockedUntil time.Time) time.Duration {
	remaining := time.Until(blockedUntil)
	if remaining <= 0 {
		return time.Second
	}
	rounded := remaining.Truncate(time.Second)
	if rounded < remaining {
		rounded += time.Second
	}
	return max(rounded, time.Second)
}
