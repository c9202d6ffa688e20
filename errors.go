package vaultgate

import "errors"

var (
	// ErrNotRegistered is returned by Authenticate when the presented
	// identity has no stored credential.
	ErrNotRegistered = errors.New("identity not registered")
	// ErrInvalidCredentials is returned by Authenticate when the presented
	// secret does not verify against the stored credential.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
