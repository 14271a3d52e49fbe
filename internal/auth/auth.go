// Package auth verifies federated Google ID tokens and issues the server's own session tokens.
package auth

import "errors"

// ErrInvalidToken is returned for any token that fails parsing, signature or claim checks.
// The underlying reason is logged, never returned to the caller.
var ErrInvalidToken = errors.New("auth: invalid token")
