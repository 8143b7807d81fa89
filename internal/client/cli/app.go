package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/taskdesk/internal/client/client"
	"github.com/dmitrijs2005/taskdesk/internal/client/config"
	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/client/notify"
	"github.com/dmitrijs2005/taskdesk/internal/client/repositories"
	"github.com/dmitrijs2005/taskdesk/internal/client/services"
	"github.com/dmitrijs2005/taskdesk/internal/client/session"
	"github.com/dmitrijs2005/taskdesk/internal/filex"
	"github.com/dmitrijs2005/taskdesk/internal/logging"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

// sessionView is the part of the session manager the CLI reads directly.
type sessionView interface {
	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) (*models.LoginResponse, bool)
	HasRole(ctx context.Context, role models.Role) bool
}

// App is the interactive taskdesk client. Build it with NewApp and start it
// with Run.
type App struct {
	session sessionView
	auth    services.AuthService
	tasks   services.TaskService
	toasts  *notify.Queue
	logger  logging.Logger

	reader *bufio.Reader
	out    io.Writer

	redirectMu sync.Mutex
	redirect   string

	closers []func() error
}

// NewApp wires the session store selected by c, the API client, the session
// manager, the notification queue and the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	a := &App{
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    &syncWriter{w: os.Stdout},
	}

	var store session.Store
	switch c.SessionStore {
	case config.StoreSQLite:
		path, err := filex.EnsureParentDir(c.SessionDBPath)
		if err != nil {
			return nil, err
		}
		db, err := repositories.Open(ctx, path)
		if err != nil {
			logger.Error(ctx, "error initializing database", "path", path, "error", err)
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		store = session.NewSQLiteStore(db)
	default:
		store = session.NewMemoryStore()
	}

	mgr := session.NewManager(store,
		session.WithLogger(logger),
		session.WithNavigator(session.NavigatorFunc(a.toLogin)),
	)

	opts := []client.Option{client.WithLogger(logger)}
	if c.HTTPTimeout > 0 {
		opts = append(opts, client.WithTimeout(c.HTTPTimeout))
	}
	api := client.NewHTTPClient(c.APIBaseURL, mgr, opts...)

	if err := mgr.Open(ctx, api); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, mgr.Close)

	queue := notify.NewQueue(notify.WithTTL(c.ToastTTL), notify.WithLogger(logger))
	a.closers = append(a.closers, func() error { queue.Close(); return nil })

	a.session = mgr
	a.toasts = queue
	a.auth = services.NewAuthService(mgr, api, queue, logger)
	a.tasks = services.NewTaskService(api, queue, logger)

	return a, nil
}

// Run starts the notification renderer and the REPL, and blocks until the
// user exits or input ends. A cancelled ctx stops the REPL before its next
// prompt; a read already in progress is not interrupted. Resources are
// released on return.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots, unsubscribe := a.toasts.Subscribe()
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		a.renderToasts(ctx, snapshots)
	}()
	defer func() {
		unsubscribe()
		<-rendered
	}()

	a.println("Welcome to taskdesk CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
}

// Close releases everything NewApp opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// status is the prompt decoration: the user's name while logged in.
func (a *App) status(ctx context.Context) string {
	if u, ok := a.session.CurrentUser(ctx); ok {
		return fmt.Sprintf(" (%s)", u.Name)
	}
	return ""
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, ok := a.session.CurrentUser(ctx)
	return ok
}

// requireAuth lets protected commands through only with a live session.
// Otherwise line is kept as the command to run after the next login.
func (a *App) requireAuth(ctx context.Context, line string) bool {
	if a.session.IsAuthenticated(ctx) {
		return true
	}
	a.redirectMu.Lock()
	a.redirect = line
	a.redirectMu.Unlock()
	a.println("Please log in first (type 'login').")
	return false
}

// takeRedirect returns and forgets the command refused by requireAuth.
func (a *App) takeRedirect() string {
	a.redirectMu.Lock()
	defer a.redirectMu.Unlock()
	r := a.redirect
	a.redirect = ""
	return r
}

// toLogin is the session navigator: it runs when the session ends.
func (a *App) toLogin(context.Context) {
	a.println("Session ended. Type 'login' to sign in.")
}

// syncWriter serializes writes; the toast renderer prints from its own
// goroutine while commands print from the REPL.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
