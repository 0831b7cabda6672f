// Package common defines shared constants and sentinel errors used across
// the todolists server, services and CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrNotOwned reports a resource that exists but belongs to another user.
	ErrNotOwned = errors.New("resource does not belong to the current user")

	// Uniqueness errors raised from database constraint violations.
	ErrTitleInUse     = errors.New("title already in use")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrUserNotMatched = errors.New("user does not exist")

	// Session / token errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrSessionExpired = errors.New("session expired")

	// Export errors.
	ErrExportDisabled = errors.New("export storage is not configured")
)
