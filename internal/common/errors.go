// Package common defines shared sentinel errors used across askgate layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Login errors.
	ErrBadCredentials = errors.New("bad credentials")
	ErrInactive       = errors.New("account inactive")

	// Authorization errors. ErrForbidden means the account exists but is
	// not permitted; everything else about a bad request token maps to
	// ErrUnauthenticated.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Token verification failure. Internal to the auth package; the
	// Authenticator translates it to ErrUnauthenticated at its boundary.
	ErrInvalidToken = errors.New("invalid token")

	// Unexpected store or primitive failure.
	ErrInternal = errors.New("internal error")
)
