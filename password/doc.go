// Package password implements the credential vault: one-way encoding and
// verification of secrets with Argon2id.
//
// # Output format
//
// Encodings use the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The salt is re-drawn on every call to [Vault.Encode], so equal secrets
// never produce equal encodings and stored credentials leak no
// equal-secret correlations.
//
// # Architecture boundaries
//
// This package owns encoding and verification only. Turning a verification
// mismatch into an error is the Engine's job; [Vault.Verify] reports a
// mismatch as (false, nil) and fails only on malformed encoded input.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials; callers supply plaintext and receive
//     encodings.
//   - Import any other vaultgate package.
package password
