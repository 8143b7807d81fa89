package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	println(args ...any)
	isLoggedIn(ctx context.Context) bool
	requireAuth(ctx context.Context, line string) bool
	takeRedirect() string

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error

	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Take(ctx context.Context, args []string) error
	Assign(ctx context.Context, args []string) error
	Users(ctx context.Context, args []string) error

	Toasts(ctx context.Context) error
	Dismiss(ctx context.Context, args []string) error
}

const (
	helpGuest  = "Available commands: help, register, login, toasts, dismiss <id>, exit"
	helpMember = "Available commands: help, whoami, (l)ist [-title t] [-responsible r] [-priority p] [-from d] [-to d] [-all], " +
		"show <id>, add, edit <id>, delete <id>, done <id>, take <id>, assign <id> <userID>, users [q], " +
		"toasts, dismiss <id>, logout, exit"
)

// protected lists the commands that need a valid session.
var protected = map[string]bool{
	"whoami": true,
	"l":      true,
	"list":   true,
	"show":   true,
	"add":    true,
	"edit":   true,
	"delete": true,
	"done":   true,
	"take":   true,
	"assign": true,
	"users":  true,
}

// runREPL starts a simple read–eval–print loop for the taskdesk CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. All output, the prompt included, goes through a.println. The loop
// exits on EOF, when the user types "exit" or "quit", or when ctx is done by
// the time the next prompt would be shown.
//
// Protected commands go through requireAuth first. A command refused there
// is remembered and replayed once a later "login" succeeds.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	pending := ""
	for {
		line := pending
		pending = ""
		if line == "" {
			if ctx.Err() != nil {
				return
			}
			a.println(fmt.Sprintf("td%s> ", statusFn()))
			raw, err := reader.ReadString('\n')
			if err != nil && (!errors.Is(err, io.EOF) || raw == "") {
				return
			}
			line = raw
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] && !a.requireAuth(ctx, strings.Join(parts, " ")) {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				a.println(helpMember)
			} else {
				a.println(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			if err := a.Login(ctx); err == nil {
				pending = a.takeRedirect()
			}

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "done":
			_ = a.Done(ctx, args)

		case "take":
			_ = a.Take(ctx, args)

		case "assign":
			_ = a.Assign(ctx, args)

		case "users":
			_ = a.Users(ctx, args)

		case "toasts":
			_ = a.Toasts(ctx)

		case "dismiss":
			_ = a.Dismiss(ctx, args)

		case "exit", "quit":
			a.println("Bye!")
			return

		default:
			a.println("Unknown command:", cmd)
		}
	}
}
