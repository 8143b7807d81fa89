// Package client talks to the task-management REST API.
//
// # Overview
//
// The package provides:
//  1. The API contract (see the API interface): authentication, task CRUD,
//     completion, self-assignment and user lookup.
//  2. An HTTP implementation (see HTTPClient) whose transport attaches the
//     session credential to API calls, tags each call with an X-Request-ID,
//     and logs the session out when a protected call is rejected.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which matches the sentinels
// ErrUnauthorized (401/403), ErrNotFound (404) and ErrUnavailable (5xx) via
// errors.Is. Transport failures wrap ErrUnavailable. Nothing is retried.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor its cancellation.
package client
