// Package store defines the storage contract for credentials and sessions
// and provides two backends: an in-memory reference store and a
// Redis-backed store.
//
// # Consistency model
//
// The credential table and the session set are independent containers.
// Each single operation is atomic, but no operation observes or locks
// across another's effect set: a caller can see a session opened for an
// identity whose credential registration is not yet visible, or vice
// versa. Callers needing read-after-write consistency across the two
// containers must coordinate externally.
//
// # Failure taxonomy
//
// All failures are *Error values matching the ErrStorage sentinel.
// Injected failures (produced by the faultinject decorator) are
// distinguishable via IsInjected and guarantee the backing state was not
// touched; genuine failures carry their cause.
package store
