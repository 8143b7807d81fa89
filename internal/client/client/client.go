package client

import (
	"context"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
)

// API is the remote task-management API.
type API interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)

	SearchTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, req models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	CompleteTask(ctx context.Context, id int64) (*models.Task, error)
	AssignToSelf(ctx context.Context, id int64) (*models.Task, error)

	SearchUsers(ctx context.Context, query string) ([]models.UserOption, error)
}

// Session is the part of the session manager the transport needs.
type Session interface {
	Token(ctx context.Context) (string, bool)
	Logout(ctx context.Context)
}
