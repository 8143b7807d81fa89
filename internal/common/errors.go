// Package common defines shared constants and sentinel errors used across
// taskdesk packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
