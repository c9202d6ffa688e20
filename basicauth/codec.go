// Package basicauth encodes and decodes credential-bearing tokens of the
// form "Basic " + base64("identity:secret").
//
// Decode is strict: the scheme prefix, a valid standard-base64 payload,
// valid UTF-8 and a colon separator are all required. Identities therefore
// cannot contain a colon; secrets can, since only the first colon splits.
package basicauth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const scheme = "Basic "

var (
	// ErrMalformedHeader is returned when the scheme prefix is absent,
	// the payload is not valid base64, or no colon separator is present.
	ErrMalformedHeader = errors.New("malformed authorization header")
	// ErrInvalidText is returned when the decoded payload is not valid
	// UTF-8.
	ErrInvalidText = errors.New("authorization payload is not valid text")
)

// Encode builds the token for an identity/secret pair. It is the exact
// inverse of Decode for identities containing no colon.
func Encode(identity, secret string) string {
	payload := base64.StdEncoding.EncodeToString([]byte(identity + ":" + secret))
	return scheme + payload
}

// Decode splits a token into its identity and secret.
func Decode(header string) (identity, secret string, err error) {
	if !strings.HasPrefix(header, scheme) {
		return "", "", fmt.Errorf("%w: missing %q prefix", ErrMalformedHeader, strings.TrimSpace(scheme))
	}

	raw, err := base64.StdEncoding.DecodeString(header[len(scheme):])
	if err != nil {
		return "", "", fmt.Errorf("%w: invalid base64 payload", ErrMalformedHeader)
	}
	if !utf8.Valid(raw) {
		return "", "", ErrInvalidText
	}

	identity, secret, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: missing separator", ErrMalformedHeader)
	}
	return identity, secret, nil
}
