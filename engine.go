package vaultgate

import (
	"context"

	"github.com/vaultgate/vaultgate/basicauth"
	"github.com/vaultgate/vaultgate/password"
	"github.com/vaultgate/vaultgate/store"
)

// Engine composes the credential vault and the storage backend into the
// four domain operations. Engines are safe for concurrent use after
// Builder.Build, but the credential table and the session set are
// independently synchronized: two operations that touch both (say,
// Register immediately followed by Authenticate from another goroutine)
// are not atomic as a pair.
type Engine struct {
	store   store.Store
	vault   *password.Vault
	metrics *Metrics
}

// Register encodes secret through the vault and upserts the credential for
// identity. The plaintext secret is never stored. Errors from the vault or
// the store surface verbatim.
func (e *Engine) Register(ctx context.Context, identity, secret string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	encoded, err := e.vault.Encode(secret)
	if err != nil {
		e.metrics.Inc(MetricRegisterFailure)
		return err
	}
	if err := e.store.Register(ctx, identity, encoded); err != nil {
		e.metrics.Inc(MetricRegisterFailure)
		e.noteInjected(err)
		return err
	}
	e.metrics.Inc(MetricRegisterSuccess)
	return nil
}

// Authenticate decodes a "Basic" credential token, verifies the secret
// against the stored credential and opens a session for the identity. It
// returns the authenticated identity on success. Failure modes:
// basicauth decode errors, ErrNotRegistered, ErrInvalidCredentials, vault
// errors on corrupted stored credentials, and storage errors.
func (e *Engine) Authenticate(ctx context.Context, authHeader string) (string, error) {
	if e == nil || e.store == nil {
		return "", ErrEngineNotReady
	}

	identity, secret, err := basicauth.Decode(authHeader)
	if err != nil {
		e.metrics.Inc(MetricAuthFailure)
		return "", err
	}

	encoded, ok, err := e.store.FetchCredential(ctx, identity)
	if err != nil {
		e.metrics.Inc(MetricAuthFailure)
		e.noteInjected(err)
		return "", err
	}
	if !ok {
		e.metrics.Inc(MetricAuthFailure)
		return "", ErrNotRegistered
	}

	match, err := e.vault.Verify(encoded, secret)
	if err != nil {
		e.metrics.Inc(MetricAuthFailure)
		return "", err
	}
	if !match {
		// The vault reports a mismatch as a boolean; this is the layer
		// that turns "no match" into an error.
		e.metrics.Inc(MetricAuthFailure)
		return "", ErrInvalidCredentials
	}

	if err := e.store.OpenSession(ctx, identity); err != nil {
		e.metrics.Inc(MetricAuthFailure)
		e.noteInjected(err)
		return "", err
	}
	e.metrics.Inc(MetricAuthSuccess)
	return identity, nil
}

// Deauthenticate decodes the token and closes the identity's session. The
// secret portion of the token is ignored; only the identity matters for
// closing. Closing a session that is not open is not an error.
func (e *Engine) Deauthenticate(ctx context.Context, authHeader string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}

	identity, _, err := basicauth.Decode(authHeader)
	if err != nil {
		return err
	}
	if err := e.store.CloseSession(ctx, identity); err != nil {
		e.noteInjected(err)
		return err
	}
	e.metrics.Inc(MetricSessionClosed)
	return nil
}

// IsAuthorized reports whether identity currently holds an open session.
func (e *Engine) IsAuthorized(ctx context.Context, identity string) (bool, error) {
	if e == nil || e.store == nil {
		return false, ErrEngineNotReady
	}

	e.metrics.Inc(MetricAuthzCheck)
	ok, err := e.store.IsAuthorized(ctx, identity)
	if err != nil {
		e.noteInjected(err)
		return false, err
	}
	return ok, nil
}

// MetricsSnapshot returns the current counter values.
func (e *Engine) MetricsSnapshot() map[MetricID]uint64 {
	if e == nil {
		return map[MetricID]uint64{}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) noteInjected(err error) {
	if store.IsInjected(err) {
		e.metrics.Inc(MetricInjectedFault)
	}
}
