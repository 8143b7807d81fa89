package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// FieldError is one entry of APIError.FieldErrors.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the error body returned by the API for non-2xx responses.
// Status is always set, even when the body could not be decoded.
type APIError struct {
	Timestamp   string       `json:"timestamp,omitempty"`
	Status      int          `json:"status"`
	Reason      string       `json:"error,omitempty"`
	Message     string       `json:"message,omitempty"`
	Path        string       `json:"path,omitempty"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api error %d", e.Status)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "; %s: %s", fe.Field, fe.Message)
	}
	return b.String()
}

// Is lets errors.Is match an APIError against the package sentinels by
// status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}
