package session

import "errors"

var (
	// ErrNotOpen is returned by Login before Open or after Close.
	ErrNotOpen = errors.New("session manager is not open")
)
