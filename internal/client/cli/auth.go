package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/common"
)

// Register prompts for name, email, password and its confirmation, and
// creates an account. Field errors are printed and nothing is sent. The
// password buffers are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	form := models.RegisterForm{
		Name:            name,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	}
	if _, err := a.auth.Register(ctx, form); err != nil {
		a.reportValidation(err)
		return err
	}
	return nil
}

// Login prompts for credentials and opens a session.
//
// A nil error means the session is stored; the REPL then replays the
// command that requireAuth refused, if any.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.reportValidation(err)
		return err
	}

	a.printf("Welcome, %s!\n", user.Name)
	return nil
}

// Logout ends the session. It never fails.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	return nil
}

// Whoami prints the logged-in user.
func (a *App) Whoami(ctx context.Context) error {
	u, ok := a.session.CurrentUser(ctx)
	if !ok {
		a.println("Not logged in.")
		return nil
	}

	roles := make([]string, 0, len(u.RoleList()))
	for _, r := range u.RoleList() {
		roles = append(roles, string(r))
	}
	a.printf("%s <%s> id=%d roles=%s\n", u.Name, u.Email, u.UserID, strings.Join(roles, ","))
	return nil
}

// reportValidation prints the field errors of a form. Other errors were
// already reported through the notification queue.
func (a *App) reportValidation(err error) {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, f := range verr.Fields {
		a.printf("  %s: %s\n", f.Field, f.Message)
	}
}
