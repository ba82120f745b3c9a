// Package session provides secure server-side session management.
//
// Sessions are identified by an opaque 32-byte token carried in a cookie;
// all state lives server-side. Each session also carries a session-bound
// CSRF token. Authentication rotates both tokens while keeping the stable
// session ID, which prevents session fixation.
//
// The Manager coordinates lifecycle operations against a Store. The package
// ships an in-memory Store with background expiry cleanup; production
// deployments can supply their own Store implementation.
//
// Basic usage:
//
//	store := session.NewMemoryStore()
//	manager := session.NewManager(store, 24*time.Hour, 5*time.Minute)
//
//	sess, err := session.New(session.NewSessionParams{IP: ip}, manager.GetTTL())
//	if err != nil {
//		return err
//	}
//	if err := sess.Authenticate(userID); err != nil {
//		return err
//	}
//	if err := manager.Store(ctx, sess); err != nil {
//		return err
//	}
//
// Sessions use value semantics: stores copy sessions in and out, so
// concurrent handlers never share mutable state.
package session
