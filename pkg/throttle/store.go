package throttle

import (
	"context"
	"time"
)

// Store defines the persistence interface for throttle state.
// Implementations must handle concurrent access safely.
type Store interface {
	// Get returns the state stored under key. A missing key yields a zero
	// State and no error.
	Get(ctx context.Context, key string) (State, error)

	// Update atomically applies fn to the state under key and persists the
	// result with the given retention. Concurrent updates to the same key
	// must not lose recorded attempts.
	Update(ctx context.Context, key string, retention time.Duration, fn func(State) State) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
