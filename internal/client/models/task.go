package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Priority string

const (
	PriorityHigh   Priority = "ALTA"
	PriorityMedium Priority = "MEDIA"
	PriorityLow    Priority = "BAIXA"
)

// ParsePriority accepts the wire value or a human alias (high/medium/low,
// alta/media/baixa), case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alta", "high":
		return PriorityHigh, nil
	case "media", "média", "medium":
		return PriorityMedium, nil
	case "baixa", "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Label is the display name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

type Status string

const (
	StatusInProgress Status = "EM_ANDAMENTO"
	StatusDone       Status = "CONCLUIDA"
)

// ParseStatus accepts the wire value or in-progress/done aliases.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "em_andamento", "in-progress", "in_progress", "open":
		return StatusInProgress, nil
	case "concluida", "concluída", "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Task is a task as returned by the API.
type Task struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Priority      Priority `json:"priority"`
	Deadline      Date     `json:"deadline"`
	Status        Status   `json:"status"`
	Responsible   string   `json:"responsible"`
	ResponsibleID *int64   `json:"responsibleId"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// IsDone reports whether the task is concluded.
func (t Task) IsDone() bool { return t.Status == StatusDone }

// HasResponsible reports whether somebody is assigned.
func (t Task) HasResponsible() bool { return t.ResponsibleID != nil }

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title             string   `json:"title"`
	Description       *string  `json:"description,omitempty"`
	Priority          Priority `json:"priority"`
	Deadline          Date     `json:"deadline"`
	Status            Status   `json:"status,omitempty"`
	ResponsibleUserID *int64   `json:"responsibleUserId,omitempty"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. Nil fields are left
// unchanged by the server.
type UpdateTaskRequest struct {
	Title             *string   `json:"title,omitempty"`
	Description       *string   `json:"description,omitempty"`
	Priority          *Priority `json:"priority,omitempty"`
	Deadline          *Date     `json:"deadline,omitempty"`
	Status            *Status   `json:"status,omitempty"`
	ResponsibleUserID *int64    `json:"responsibleUserId,omitempty"`
}

// TaskFilter holds the optional search parameters of GET /tasks.
type TaskFilter struct {
	Title            string
	Responsible      string
	Priority         Priority
	DeadlineFrom     Date
	DeadlineTo       Date
	OnlyNotConcluded *bool
}

// Query encodes the filter as URL query parameters. Blank text fields and
// zero dates are omitted; text is trimmed.
func (f TaskFilter) Query() url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(f.Title); s != "" {
		q.Set("title", s)
	}
	if s := strings.TrimSpace(f.Responsible); s != "" {
		q.Set("responsible", s)
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if !f.DeadlineFrom.IsZero() {
		q.Set("deadlineFrom", f.DeadlineFrom.String())
	}
	if !f.DeadlineTo.IsZero() {
		q.Set("deadlineTo", f.DeadlineTo.String())
	}
	if f.OnlyNotConcluded != nil {
		q.Set("onlyNotConcluded", strconv.FormatBool(*f.OnlyNotConcluded))
	}
	return q
}
