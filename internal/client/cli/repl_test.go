package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	redirect string

	calls []string
	lines []string
}

func (f *fakeExec) println(args ...any) {
	f.lines = append(f.lines, strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return nil
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) requireAuth(_ context.Context, line string) bool {
	if !f.loggedIn {
		f.redirect = line
	}
	return f.loggedIn
}
func (f *fakeExec) takeRedirect() string {
	r := f.redirect
	f.redirect = ""
	return r
}

func (f *fakeExec) Register(context.Context) error { return f.record("register", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Whoami(context.Context) error { return f.record("whoami", nil) }
func (f *fakeExec) List(_ context.Context, args []string) error {
	return f.record("list", args)
}
func (f *fakeExec) Show(_ context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) Add(context.Context) error { return f.record("add", nil) }
func (f *fakeExec) Edit(_ context.Context, args []string) error {
	return f.record("edit", args)
}
func (f *fakeExec) Delete(_ context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Done(_ context.Context, args []string) error {
	return f.record("done", args)
}
func (f *fakeExec) Take(_ context.Context, args []string) error {
	return f.record("take", args)
}
func (f *fakeExec) Assign(_ context.Context, args []string) error {
	return f.record("assign", args)
}
func (f *fakeExec) Users(_ context.Context, args []string) error {
	return f.record("users", args)
}
func (f *fakeExec) Toasts(context.Context) error { return f.record("toasts", nil) }
func (f *fakeExec) Dismiss(_ context.Context, args []string) error {
	return f.record("dismiss", args)
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, input(
		"whoami",
		"l -all",
		"list -title report",
		"show 1",
		"add",
		"edit 2",
		"delete 3",
		"done 4",
		"take 5",
		"assign 6 7",
		"users ana maria",
		"toasts",
		"dismiss 8",
		"register",
		"logout",
		"exit",
	))

	assert.Equal(t, []string{
		"whoami",
		"list -all",
		"list -title report",
		"show 1",
		"add",
		"edit 2",
		"delete 3",
		"done 4",
		"take 5",
		"assign 6 7",
		"users ana maria",
		"toasts",
		"dismiss 8",
		"register",
		"logout",
	}, exec.calls)
}

func TestRunREPL_GuardRefusesAndReplaysAfterLogin(t *testing.T) {
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, input(
		"show 42",
		"done 1",
		"login",
		"exit",
	))

	// only the last refused command is replayed
	assert.Equal(t, []string{"login", "done 1"}, exec.calls)
	assert.Empty(t, exec.redirect)
}

func TestRunREPL_PublicCommandsNeedNoSession(t *testing.T) {
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, input(
		"register",
		"toasts",
		"dismiss 1",
		"logout",
	))

	assert.Equal(t, []string{"register", "toasts", "dismiss 1", "logout"}, exec.calls)
}

func TestRunREPL_HelpUnknownAndQuit(t *testing.T) {
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return " (Ana)" }, input(
		"",
		"help",
		"foobar",
		"quit",
		"help",
	))

	assert.Empty(t, exec.calls)
	assert.Contains(t, exec.lines, "td (Ana)> ")
	assert.Contains(t, exec.lines, helpGuest)
	assert.Contains(t, exec.lines, "Unknown command: foobar")
	assert.Equal(t, "Bye!", exec.lines[len(exec.lines)-1])
}

func TestRunREPL_HelpWhenLoggedIn(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, input("help"))

	assert.Contains(t, exec.lines, helpMember)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("list")))

	assert.Equal(t, []string{"list"}, exec.calls)
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "" }, input("list", "show 1"))

	assert.Empty(t, exec.calls)
	assert.Empty(t, exec.lines)
}
