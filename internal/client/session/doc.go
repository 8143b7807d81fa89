// Package session owns the client's authentication state: the bearer
// credential and the current-user record returned by login.
//
// A Manager is created at startup, bound to an Authenticator with Open and
// released with Close. Consumers (the request decorator, command guards,
// services) receive it explicitly.
//
// # Storage
//
// The credential and user record live in a Store under the keys
// common.TokenKey and common.UserKey. They are always written together and
// cleared together; a half-written session is cleared by Open.
//
// # Expiry
//
// IsAuthenticated reads the "exp" claim from the second dot-separated
// segment of the credential without verifying the signature. Anything that
// cannot be decoded counts as expired, and an expired session is logged out
// as a side effect. Stored state is never reported as an error.
package session
