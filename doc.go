// Package vaultgate authenticates identities against stored credentials
// and tracks per-identity login sessions.
//
// The public surface is [Engine], built through [Builder]: Register encodes
// a secret into the credential vault and stores it, Authenticate opens a
// session for a valid "Basic" credential token, Deauthenticate closes it,
// and IsAuthorized reports whether an identity currently holds an open
// session.
//
// # Architecture boundaries
//
// vaultgate is the domain layer. Storage lives behind the
// [store.Store] interface (in-memory and Redis backends ship in
// store); credential encoding lives in password; token parsing in
// basicauth. The faultinject package decorates any store with named
// failure triggers, and sim drives randomized operation sequences against
// the full stack to check its consistency invariants under those injected
// failures.
//
// # Error contract
//
// Engine methods never recover from lower-layer errors: decode, vault and
// storage failures surface verbatim to the caller. The only errors minted
// here are [ErrNotRegistered] and [ErrInvalidCredentials], and callers
// must not expose which of the two fields was wrong beyond those
// categories.
package vaultgate
