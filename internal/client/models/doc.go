// Package models defines the request and response types of the task API,
// the calendar Date used for deadlines, and client-side form validation.
package models
