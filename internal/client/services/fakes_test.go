package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
)

// ---- fake API ----

// fakeAPI implements client.API for unit tests.
type fakeAPI struct {
	mu sync.Mutex

	// behavior/results
	RegisterRet *models.User
	RegisterErr error

	SearchTasksFn func(ctx context.Context, f models.TaskFilter) ([]models.Task, error)

	TaskRet *models.Task
	TaskErr error

	DeleteErr error

	UsersRet []models.UserOption
	UsersErr error

	// for argument checks
	Calls          []string
	LastRegister   models.RegisterRequest
	LastCreate     models.CreateTaskRequest
	LastUpdate     models.UpdateTaskRequest
	LastUpdateID   int64
	LastTaskID     int64
	LastUsersQuery string
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

func (f *fakeAPI) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Calls...)
}

func (f *fakeAPI) Login(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	f.record("Login")
	return nil, nil
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (*models.User, error) {
	f.record("Register")
	f.LastRegister = req
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAPI) SearchTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	f.record("SearchTasks")
	if f.SearchTasksFn != nil {
		return f.SearchTasksFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeAPI) GetTask(_ context.Context, id int64) (*models.Task, error) {
	f.record("GetTask")
	f.LastTaskID = id
	return f.TaskRet, f.TaskErr
}

func (f *fakeAPI) CreateTask(_ context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	f.record("CreateTask")
	f.LastCreate = req
	return f.TaskRet, f.TaskErr
}

func (f *fakeAPI) UpdateTask(_ context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error) {
	f.record("UpdateTask")
	f.LastUpdateID = id
	f.LastUpdate = req
	return f.TaskRet, f.TaskErr
}

func (f *fakeAPI) DeleteTask(_ context.Context, id int64) error {
	f.record("DeleteTask")
	f.LastTaskID = id
	return f.DeleteErr
}

func (f *fakeAPI) CompleteTask(_ context.Context, id int64) (*models.Task, error) {
	f.record("CompleteTask")
	f.LastTaskID = id
	return f.TaskRet, f.TaskErr
}

func (f *fakeAPI) AssignToSelf(_ context.Context, id int64) (*models.Task, error) {
	f.record("AssignToSelf")
	f.LastTaskID = id
	return f.TaskRet, f.TaskErr
}

func (f *fakeAPI) SearchUsers(_ context.Context, q string) ([]models.UserOption, error) {
	f.record("SearchUsers")
	f.LastUsersQuery = q
	return f.UsersRet, f.UsersErr
}

// ---- recording notifier ----

type note struct {
	kind string
	text string
}

type recNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recNotifier) add(kind, text string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{kind, text})
	return len(r.notes)
}

func (r *recNotifier) Success(text string) int { return r.add("success", text) }
func (r *recNotifier) Error(text string) int   { return r.add("error", text) }
func (r *recNotifier) Info(text string) int    { return r.add("info", text) }

func (r *recNotifier) all() []note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]note(nil), r.notes...)
}

// ---- fake session ----

type fakeSession struct {
	resp    *models.LoginResponse
	err     error
	user    *models.LoginResponse
	logouts int
	logins  int
}

func (f *fakeSession) Login(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	f.logins++
	if f.err != nil {
		return nil, f.err
	}
	f.user = f.resp
	return f.resp, nil
}

func (f *fakeSession) Logout(context.Context) {
	f.logouts++
	f.user = nil
}

func (f *fakeSession) CurrentUser(context.Context) (*models.LoginResponse, bool) {
	return f.user, f.user != nil
}
