// Package common contains shared constants and sentinel errors used across
// taskdesk components.
package common

// AuthorizationHeaderName carries the "<type> <token>" credential on
// outbound API requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries the per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// Session storage keys. Both are written together and cleared together.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)
