// Package throttle provides sliding-window login throttling with pluggable
// storage backends.
//
// Every failed login is recorded under three independent keys: the normalized
// identity (email), the request origin (client IP), and the identity|origin
// combination. When any key accumulates MaxAttempts failures inside the
// sliding window, a lockout is placed on that key. A login attempt is blocked
// while any of its three keys carries an active lockout; the effective block
// is the latest blocked-until instant across the keys.
//
// Lockouts only extend, never shrink: recording another failure while locked
// keeps the later of the existing and the newly computed deadline. A
// successful login clears the identity and combination keys but deliberately
// leaves the origin key intact, so an attacker rotating identities from one
// address keeps accumulating failures.
//
// Keys are SHA-256 digests of the raw identity and origin, so stores never
// see plaintext emails or addresses.
//
// The guard fails open: when the backing store is unreachable, checks report
// "not blocked" and recording becomes a no-op, with the error logged. An
// unavailable store must not lock every user out of the product.
//
// Basic usage:
//
//	store := throttle.NewMemoryStore()
//	guard := throttle.New(store)
//
//	until := guard.BlockedUntil(ctx, email, clientIP)
//	if time.Now().Before(until) {
//		retryAfter := throttle.RetryAfter(until)
//		// reject with 429 and Retry-After
//	}
//
//	// after a failed credential check:
//	guard.RecordFailure(ctx, email, clientIP)
//
//	// after a successful login:
//	guard.Clear(ctx, email, clientIP)
package throttle
