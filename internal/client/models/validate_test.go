package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	out := map[string]string{}
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, LoginRequest{Email: "ana@example.com", Password: "x"}.Validate())

	f := fieldsOf(t, LoginRequest{}.Validate())
	assert.Equal(t, "email is required", f["email"])
	assert.Equal(t, "password is required", f["password"])

	f = fieldsOf(t, LoginRequest{Email: "not-an-email", Password: "x"}.Validate())
	assert.Equal(t, "enter a valid email", f["email"])
	assert.NotContains(t, f, "password")
}

func TestRegisterForm_Validate(t *testing.T) {
	ok := RegisterForm{Name: "Ana", Email: "ana@example.com", Password: "123456", ConfirmPassword: "123456"}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name  string
		form  RegisterForm
		field string
		msg   string
	}{
		{"short name", RegisterForm{Name: "A", Email: ok.Email, Password: ok.Password, ConfirmPassword: ok.Password}, "name", "name must have at least 2 characters"},
		{"bad email", RegisterForm{Name: ok.Name, Email: "ana@", Password: ok.Password, ConfirmPassword: ok.Password}, "email", "enter a valid email"},
		{"short password", RegisterForm{Name: ok.Name, Email: ok.Email, Password: "123", ConfirmPassword: "123"}, "password", "password must have at least 6 characters"},
		{"missing confirmation", RegisterForm{Name: ok.Name, Email: ok.Email, Password: ok.Password}, "confirmPassword", "password confirmation is required"},
		{"mismatch", RegisterForm{Name: ok.Name, Email: ok.Email, Password: ok.Password, ConfirmPassword: "654321"}, "confirmPassword", "passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fieldsOf(t, tt.form.Validate())
			assert.Equal(t, tt.msg, f[tt.field])
			assert.Len(t, f, 1)
		})
	}
}

func TestRegisterForm_Request_TrimsAndDropsConfirmation(t *testing.T) {
	r := RegisterForm{Name: " Ana ", Email: " ana@example.com ", Password: " pw ", ConfirmPassword: " pw "}.Request()
	assert.Equal(t, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: " pw "}, r)
}

func TestTaskForm_Validate(t *testing.T) {
	f := NewTaskForm()
	f.Title = "Ship release"
	f.Deadline = NewDate(2025, time.July, 1)
	assert.NoError(t, f.Validate())

	blank := fieldsOf(t, TaskForm{}.Validate())
	assert.Contains(t, blank, "title")
	assert.Contains(t, blank, "priority")
	assert.Contains(t, blank, "deadline")
	assert.Contains(t, blank, "status")

	f.Title = strings.Repeat("x", MaxTitleLength+1)
	long := fieldsOf(t, f.Validate())
	assert.Equal(t, "title must have at most 200 characters", long["title"])
}

func TestTaskForm_RoundTripFromTask(t *testing.T) {
	desc := "details"
	owner := int64(4)
	task := Task{ID: 1, Title: "T", Description: &desc, Priority: PriorityLow, Deadline: NewDate(2025, 1, 2), Status: StatusInProgress, ResponsibleID: &owner}

	f := EditTaskForm(task)
	req := f.UpdateRequest()

	require.NotNil(t, req.Title)
	assert.Equal(t, "T", *req.Title)
	assert.Equal(t, "details", *req.Description)
	assert.Equal(t, PriorityLow, *req.Priority)
	assert.Equal(t, int64(4), *req.ResponsibleUserID)

	c := f.CreateRequest()
	assert.Equal(t, "T", c.Title)
	assert.Equal(t, StatusInProgress, c.Status)
}

func TestValidateAssignee(t *testing.T) {
	id := int64(3)
	assert.NoError(t, ValidateAssignee(&id))

	f := fieldsOf(t, ValidateAssignee(nil))
	assert.Equal(t, "responsible is required", f["responsibleUserId"])
}

func TestValidationError_FieldLookup(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{{Field: "title", Message: "title is required"}}}
	msg, ok := err.Field("title")
	assert.True(t, ok)
	assert.Equal(t, "title is required", msg)
	_, ok = err.Field("status")
	assert.False(t, ok)
	assert.Equal(t, "validation failed: title: title is required", err.Error())
}
