// Package services contains the application services of the taskdesk
// client. Each operation validates its input, calls the API, reports the
// outcome through the notification queue and returns the result.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskdesk/internal/client/client"
	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/logging"
)

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Success(text string) int
	Error(text string) int
	Info(text string) int
}

// Session is the session manager as seen by the services.
type Session interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context)
	CurrentUser(ctx context.Context) (*models.LoginResponse, bool)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate credentials, authenticate and open a session.
//   - Register: validate the form and create an account on the server.
//   - Logout: end the session.
//   - Actor: describe the logged-in user for permission checks.
//
// Validation failures are returned before any network call and without a
// notification.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, form models.RegisterForm) (*models.User, error)
	Logout(ctx context.Context)
	Actor(ctx context.Context) (Actor, bool)
}

type authService struct {
	session  Session
	api      client.API
	notifier Notifier
	logger   logging.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(session Session, api client.API, notifier Notifier, logger logging.Logger) AuthService {
	return &authService{session: session, api: api, notifier: notifier, logger: logger}
}

const (
	msgLoginOK      = "Logged in successfully."
	msgLoginFailed  = "Could not log in. Check your credentials."
	msgRegisterOK   = "Account created. Log in to continue."
	msgRegisterFail = "Could not create the account. Please try again."
	msgLoggedOut    = "You have been logged out."
)

func (a *authService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	req := models.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := a.session.Login(ctx, req)
	if err != nil {
		a.logger.Error(ctx, "login failed", "email", req.Email, "error", err)
		a.notifier.Error(serverMessage(err, msgLoginFailed))
		return nil, fmt.Errorf("login: %w", err)
	}

	a.notifier.Success(msgLoginOK)
	return resp, nil
}

func (a *authService) Register(ctx context.Context, form models.RegisterForm) (*models.User, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := a.api.Register(ctx, form.Request())
	if err != nil {
		a.logger.Error(ctx, "register failed", "email", form.Email, "error", err)
		a.notifier.Error(serverMessage(err, msgRegisterFail))
		return nil, fmt.Errorf("register: %w", err)
	}

	a.logger.Info(ctx, "account created", "user_id", user.ID)
	a.notifier.Success(msgRegisterOK)
	return user, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.notifier.Info(msgLoggedOut)
}

func (a *authService) Actor(ctx context.Context) (Actor, bool) {
	u, ok := a.session.CurrentUser(ctx)
	if !ok {
		return Actor{}, false
	}
	return ActorOf(u), true
}

// serverMessage prefers the message of an API error body over fallback.
func serverMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}
