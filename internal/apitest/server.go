// Package apitest runs an in-memory fake of the task-management REST API
// for tests. It issues real HS256 tokens, enforces the backend's ownership
// rules and answers errors in the API's error-body shape.
package apitest

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
)

// BasePath is where the API is mounted on the fake server.
const BasePath = "/api/v1"

const timestampLayout = "2006-01-02T15:04:05"

type user struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	Roles     string
	CreatedAt string
	UpdatedAt string
}

func (u *user) isAdmin() bool {
	for _, r := range models.ParseRoles(u.Roles) {
		if r == models.RoleAdmin {
			return true
		}
	}
	return false
}

func (u *user) dto() models.User {
	return models.User{ID: u.ID, Name: u.Name, Email: u.Email, Roles: u.Roles, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// Server is a running fake API. Use BaseURL as the client's API root.
type Server struct {
	*httptest.Server

	echo     *echo.Echo
	clock    clockwork.Clock
	secret   []byte
	tokenTTL time.Duration

	mu         sync.Mutex
	users      map[int64]*user
	tasks      map[int64]*models.Task
	nextUserID int64
	nextTaskID int64
	failNext   []int
	requests   int
}

type Option func(*Server)

// WithClock sets the clock used for token issue/expiry and timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithTokenTTL sets the lifetime of issued tokens (default 1h).
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// New starts a fake API and stops it when the test ends.
func New(tb testing.TB, opts ...Option) *Server {
	tb.Helper()

	secret, err := common.MakeRandHexString(32)
	if err != nil {
		tb.Fatalf("signing secret: %v", err)
	}

	s := &Server{
		clock:    clockwork.NewRealClock(),
		secret:   []byte(secret),
		tokenTTL: time.Hour,
		users:    make(map[int64]*user),
		tasks:    make(map[int64]*models.Task),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.registerRoutes()

	s.Server = httptest.NewServer(s.echo)
	tb.Cleanup(s.Close)
	return s
}

// BaseURL is the API root, e.g. "http://127.0.0.1:4321/api/v1".
func (s *Server) BaseURL() string { return s.URL + BasePath }

func (s *Server) registerRoutes() {
	api := s.echo.Group(BasePath, s.countRequests, s.injectFailures)

	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/register", s.handleRegister)

	protected := api.Group("", s.requireAuth)
	protected.GET("/tasks", s.handleSearchTasks)
	protected.POST("/tasks", s.handleCreateTask)
	protected.GET("/tasks/:id", s.handleGetTask)
	protected.PUT("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)
	protected.PATCH("/tasks/:id/concluir", s.handleCompleteTask)
	protected.PATCH("/tasks/:id/responsavel", s.handleLinkToSelf)
	protected.GET("/users", s.handleSearchUsers)
}

// FailNext makes the next n API calls answer with status instead of being
// handled, one status per call.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = append(s.failNext, statuses...)
}

// Requests returns how many API calls reached the server.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		var status int
		if len(s.failNext) > 0 {
			status, s.failNext = s.failNext[0], s.failNext[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			return echo.NewHTTPError(status, http.StatusText(status))
		}
		return next(c)
	}
}

// AddUser registers a user directly and returns its id. Empty roles mean
// ROLE_USER.
func (s *Server) AddUser(name, email, password, roles string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, roles).ID
}

func (s *Server) addUserLocked(name, email, password, roles string) *user {
	if strings.TrimSpace(roles) == "" {
		roles = string(models.RoleUser)
	}
	now := s.now()
	s.nextUserID++
	u := &user{ID: s.nextUserID, Name: name, Email: email, Password: password, Roles: roles, CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = u
	return u
}

// AddTask stores a task as given, assigning id and timestamps, and returns
// the stored copy. Status defaults to EM_ANDAMENTO; a ResponsibleID fills
// in the responsible name.
func (s *Server) AddTask(t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Status == "" {
		t.Status = models.StatusInProgress
	}
	if t.ResponsibleID != nil {
		if u, ok := s.users[*t.ResponsibleID]; ok {
			t.Responsible = u.Name
		}
	}
	now := s.now()
	s.nextTaskID++
	t.ID = s.nextTaskID
	t.CreatedAt, t.UpdatedAt = now, now
	stored := t
	s.tasks[t.ID] = &stored
	return stored
}

// Task returns the stored task with the given id.
func (s *Server) Task(id int64) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return *t, true
}

// IssueToken mints a token for an existing user, valid for ttl from now.
// A negative ttl yields an already expired token.
func (s *Server) IssueToken(userID int64, ttl time.Duration) (string, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown user %d", userID)
	}
	return generateToken(u, s.secret, s.clock.Now(), ttl)
}

func (s *Server) now() string {
	return s.clock.Now().UTC().Format(timestampLayout)
}

// ---- auth ----

const actorKey = "actor"

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Credenciais inválidas. Verifique os dados informados e tente novamente.")
		}

		claims, err := parseToken(raw, s.secret, s.clock.Now)
		if errors.Is(err, common.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Sessão expirada. Faça login novamente.").SetInternal(err)
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Credenciais inválidas. Verifique os dados informados e tente novamente.").SetInternal(err)
		}

		s.mu.Lock()
		actor := s.userByEmailLocked(claims.Subject)
		s.mu.Unlock()
		if actor == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Usuário não encontrado.")
		}

		c.Set(actorKey, actor)
		return next(c)
	}
}

func actorFrom(c echo.Context) *user {
	u, _ := c.Get(actorKey).(*user)
	return u
}

func (s *Server) userByEmailLocked(email string) *user {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Server) handleLogin(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Corpo da requisição inválido.")
	}

	var fe []fieldError
	if strings.TrimSpace(req.Email) == "" {
		fe = append(fe, fieldError{Field: "email", Message: "must not be blank"})
	}
	if req.Password == "" {
		fe = append(fe, fieldError{Field: "password", Message: "must not be blank"})
	}
	if len(fe) > 0 {
		return invalidFields(fe)
	}

	s.mu.Lock()
	u := s.userByEmailLocked(req.Email)
	s.mu.Unlock()
	if u == nil || u.Password != req.Password {
		return echo.NewHTTPError(http.StatusUnauthorized, "Credenciais inválidas. Verifique os dados informados e tente novamente.")
	}

	token, err := generateToken(u, s.secret, s.clock.Now(), s.tokenTTL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Roles:     u.Roles,
	})
}

func (s *Server) handleRegister(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Corpo da requisição inválido.")
	}

	var fe []fieldError
	if strings.TrimSpace(req.Name) == "" {
		fe = append(fe, fieldError{Field: "name", Message: "must not be blank"})
	}
	if strings.TrimSpace(req.Email) == "" {
		fe = append(fe, fieldError{Field: "email", Message: "must not be blank"})
	}
	if n := len(req.Password); n < 6 || n > 100 {
		fe = append(fe, fieldError{Field: "password", Message: "size must be between 6 and 100"})
	}
	if len(fe) > 0 {
		return invalidFields(fe)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userByEmailLocked(req.Email) != nil {
		return badRequest("E-mail já está em uso.")
	}
	u := s.addUserLocked(req.Name, req.Email, req.Password, req.Roles)
	return c.JSON(http.StatusCreated, u.dto())
}

func (s *Server) handleSearchUsers(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if c.QueryParams().Has("q") && len([]rune(c.QueryParam("q"))) < 2 {
		return invalidFields([]fieldError{{Field: "q", Message: "O termo de busca deve ter ao menos 2 caracteres."}})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.UserOption{}
	for id := int64(1); id <= s.nextUserID; id++ {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		if q != "" && !containsFold(u.Name, q) && !containsFold(u.Email, q) {
			continue
		}
		out = append(out, models.UserOption{Value: u.ID, Label: u.Name + " (" + u.Email + ")"})
	}
	return c.JSON(http.StatusOK, out)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ---- errors ----

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type apiError struct {
	Timestamp   string       `json:"timestamp"`
	Status      int          `json:"status"`
	Error       string       `json:"error"`
	Message     string       `json:"message"`
	Path        string       `json:"path"`
	FieldErrors []fieldError `json:"fieldErrors"`
}

type fieldsError struct {
	fields []fieldError
}

func (e *fieldsError) Error() string { return "Um ou mais campos estão inválidos." }

func invalidFields(fe []fieldError) error {
	return &fieldsError{fields: fe}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func notFound(msg string) error {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

func forbidden(msg string) error {
	return echo.NewHTTPError(http.StatusForbidden, msg)
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	body := apiError{
		Timestamp:   s.clock.Now().UTC().Format(time.RFC3339),
		Path:        c.Request().URL.Path,
		FieldErrors: []fieldError{},
	}

	var fe *fieldsError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &fe):
		body.Status = http.StatusBadRequest
		body.Message = fe.Error()
		body.FieldErrors = fe.fields
	case errors.As(err, &he):
		body.Status = he.Code
		body.Message = fmt.Sprint(he.Message)
	default:
		body.Status = http.StatusInternalServerError
		body.Message = "Erro interno inesperado. Se o problema persistir, contate o suporte."
	}
	body.Error = http.StatusText(body.Status)

	_ = c.JSON(body.Status, body)
}
