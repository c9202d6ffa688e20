package store

import (
	"context"
	"errors"
	"fmt"
)

// Operation names consulted by the fault-injecting decorator. Trigger names
// are a shared convention between the decorator and its callers; arming a
// name outside this set is a no-op.
const (
	OpRegister        = "register"
	OpOpenSession     = "open_session"
	OpCloseSession    = "close_session"
	OpFetchCredential = "fetch_credential"
	OpIsAuthorized    = "is_authorized"
)

// Operations lists the five storage operation names in a fixed order.
func Operations() []string {
	return []string{OpRegister, OpOpenSession, OpCloseSession, OpFetchCredential, OpIsAuthorized}
}

var (
	// ErrStorage matches any *Error via errors.Is, injected or genuine.
	ErrStorage = errors.New("storage error")
	// ErrCapacityExceeded is returned by capacity-bounded backends when a
	// registration would exceed the identity bound. Re-registering an
	// already-known identity never trips it.
	ErrCapacityExceeded = errors.New("identity capacity exceeded")
)

// Error is the storage failure type. Injected marks failures produced by an
// armed trigger, which by construction left the underlying state untouched;
// genuine failures wrap their cause in Err.
type Error struct {
	Op       string
	Injected bool
	Err      error
}

func (e *Error) Error() string {
	if e.Injected {
		return fmt.Sprintf("storage error: injected fault on %s", e.Op)
	}
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match the ErrStorage sentinel, so layers above the
// decorator can collapse injected and genuine failures into one kind.
func (e *Error) Is(target error) bool { return target == ErrStorage }

// NewError tags a genuine failure of op with its cause.
func NewError(op string, cause error) *Error {
	return &Error{Op: op, Err: cause}
}

// NewInjected builds the failure an armed trigger returns for op.
func NewInjected(op string) *Error {
	return &Error{Op: op, Injected: true}
}

// IsInjected reports whether err is (or wraps) an injected storage failure.
func IsInjected(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Injected
}

// Store is the storage capability behind the domain operations: a
// credential table keyed by identity and a session set. Every operation
// may fail with a *Error, and each call's effect is all-or-nothing; the
// interface makes no atomicity promise across calls or across the two
// containers.
type Store interface {
	// Register upserts the credential for identity. Sessions are untouched.
	Register(ctx context.Context, identity, encoded string) error
	// OpenSession adds identity to the session set. Idempotent.
	OpenSession(ctx context.Context, identity string) error
	// CloseSession removes identity from the session set. Idempotent.
	CloseSession(ctx context.Context, identity string) error
	// FetchCredential returns the stored encoding for identity, with
	// ok=false if it was never registered.
	FetchCredential(ctx context.Context, identity string) (encoded string, ok bool, err error)
	// IsAuthorized reports session-set membership for identity.
	IsAuthorized(ctx context.Context, identity string) (bool, error)
}
