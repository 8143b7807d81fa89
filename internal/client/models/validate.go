package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("validation failed")

const (
	MaxTitleLength    = 200
	MinNameLength     = 2
	MinPasswordLength = 6
)

// FieldError is one failed rule on one form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects the field errors of a form. It is returned before
// any request is sent.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Field returns the first message recorded for name.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

type checker struct {
	fields []FieldError
	seen   map[string]bool
}

// check records msg for field unless ok, keeping only the first failure of
// each field.
func (c *checker) check(ok bool, field, msg string) {
	if ok || c.seen[field] {
		return
	}
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	c.seen[field] = true
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

func present(s string) bool { return strings.TrimSpace(s) != "" }

// Validate checks the login form.
func (r LoginRequest) Validate() error {
	var c checker
	c.check(present(r.Email), "email", "email is required")
	c.check(govalidator.IsEmail(strings.TrimSpace(r.Email)), "email", "enter a valid email")
	c.check(r.Password != "", "password", "password is required")
	return c.err()
}

// RegisterForm is the registration form including the confirmation field
// that never leaves the client.
type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks the registration form.
func (f RegisterForm) Validate() error {
	var c checker
	c.check(present(f.Name), "name", "name is required")
	c.check(govalidator.MinStringLength(strings.TrimSpace(f.Name), strconv.Itoa(MinNameLength)), "name", fmt.Sprintf("name must have at least %d characters", MinNameLength))
	c.check(present(f.Email), "email", "email is required")
	c.check(govalidator.IsEmail(strings.TrimSpace(f.Email)), "email", "enter a valid email")
	c.check(f.Password != "", "password", "password is required")
	c.check(govalidator.MinStringLength(f.Password, strconv.Itoa(MinPasswordLength)), "password", fmt.Sprintf("password must have at least %d characters", MinPasswordLength))
	c.check(f.ConfirmPassword != "", "confirmPassword", "password confirmation is required")
	c.check(f.Password == f.ConfirmPassword, "confirmPassword", "passwords do not match")
	return c.err()
}

// Request converts the form into the API payload.
func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

// TaskForm is the create/edit task form. Priority and Status default to
// MEDIA and EM_ANDAMENTO when a form is opened for a new task.
type TaskForm struct {
	Title             string
	Description       string
	Priority          Priority
	Deadline          Date
	Status            Status
	ResponsibleUserID *int64
}

// NewTaskForm returns a blank form with the defaults of a new task.
func NewTaskForm() TaskForm {
	return TaskForm{Priority: PriorityMedium, Status: StatusInProgress}
}

// EditTaskForm returns a form prefilled from t.
func EditTaskForm(t Task) TaskForm {
	f := TaskForm{
		Title:             t.Title,
		Priority:          t.Priority,
		Deadline:          t.Deadline,
		Status:            t.Status,
		ResponsibleUserID: t.ResponsibleID,
	}
	if t.Description != nil {
		f.Description = *t.Description
	}
	return f
}

// Validate checks the task form.
func (f TaskForm) Validate() error {
	var c checker
	c.check(present(f.Title), "title", "title is required")
	c.check(govalidator.MaxStringLength(f.Title, strconv.Itoa(MaxTitleLength)), "title", fmt.Sprintf("title must have at most %d characters", MaxTitleLength))
	c.check(f.Priority != "", "priority", "priority is required")
	c.check(!f.Deadline.IsZero(), "deadline", "deadline is required")
	c.check(f.Status != "", "status", "status is required")
	return c.err()
}

func (f TaskForm) description() *string {
	d := f.Description
	return &d
}

// CreateRequest converts the form into a create payload.
func (f TaskForm) CreateRequest() CreateTaskRequest {
	return CreateTaskRequest{
		Title:             f.Title,
		Description:       f.description(),
		Priority:          f.Priority,
		Deadline:          f.Deadline,
		Status:            f.Status,
		ResponsibleUserID: f.ResponsibleUserID,
	}
}

// UpdateRequest converts the form into a full update payload.
func (f TaskForm) UpdateRequest() UpdateTaskRequest {
	title, priority, deadline, status := f.Title, f.Priority, f.Deadline, f.Status
	return UpdateTaskRequest{
		Title:             &title,
		Description:       f.description(),
		Priority:          &priority,
		Deadline:          &deadline,
		Status:            &status,
		ResponsibleUserID: f.ResponsibleUserID,
	}
}

// ValidateAssignee checks the admin "assign responsible" form.
func ValidateAssignee(userID *int64) error {
	var c checker
	c.check(userID != nil && *userID > 0, "responsibleUserId", "responsible is required")
	return c.err()
}
