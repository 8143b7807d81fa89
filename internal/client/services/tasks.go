package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskdesk/internal/client/client"
	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/logging"
)

// TaskService defines the task operations of the CLI. Failures are logged
// with the original error, reported as a generic notification and returned
// wrapped; successes push a success notification.
type TaskService interface {
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, form models.TaskForm) (*models.Task, error)
	Update(ctx context.Context, id int64, form models.TaskForm) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) (*models.Task, error)
	AssignToSelf(ctx context.Context, id int64) (*models.Task, error)
	AssignTo(ctx context.Context, id int64, userID *int64) (*models.Task, error)
	SearchUsers(ctx context.Context, query string) ([]models.UserOption, error)
}

type taskService struct {
	api      client.API
	notifier Notifier
	logger   logging.Logger
	seq      *sequencer
}

func NewTaskService(api client.API, notifier Notifier, logger logging.Logger) TaskService {
	return &taskService{api: api, notifier: notifier, logger: logger, seq: newSequencer()}
}

// listQueryKey identifies the task list query. Every List call replaces the
// previous one regardless of filter.
const listQueryKey = "tasks.list"

const (
	msgListFailed     = "Could not load tasks. Please try again."
	msgGetFailed      = "Could not load the task. Please try again."
	msgCreated        = "Task created."
	msgCreateFailed   = "Could not create the task. Please try again."
	msgUpdated        = "Task updated."
	msgUpdateFailed   = "Could not save the task. Please try again."
	msgDeleted        = "Task deleted."
	msgDeleteFailed   = "Could not delete the task. Please try again."
	msgCompleted      = "Task completed."
	msgCompleteFailed = "Could not complete the task. Please try again."
	msgLinked         = "You are now responsible for this task."
	msgLinkFailed     = "Could not link the task. Please try again."
	msgAssigned       = "Responsible assigned."
	msgAssignFailed   = "Could not assign the responsible. Please try again."
	msgUsersFailed    = "Could not load users. Please try again."
)

func (s *taskService) fail(ctx context.Context, op string, err error, msg string) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	s.notifier.Error(msg)
	return fmt.Errorf("%s: %w", op, err)
}

// List searches tasks. If another List starts before this one returns, the
// older result is dropped with ErrStaleResponse and nothing is reported.
func (s *taskService) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	seq := s.seq.next(listQueryKey)

	tasks, err := s.api.SearchTasks(ctx, filter)

	if !s.seq.isLatest(listQueryKey, seq) {
		s.logger.Debug(ctx, "dropping stale task list", "seq", seq)
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, s.fail(ctx, "list tasks", err, msgListFailed)
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	t, err := s.api.GetTask(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get task", err, msgGetFailed)
	}
	return t, nil
}

func (s *taskService) Create(ctx context.Context, form models.TaskForm) (*models.Task, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	t, err := s.api.CreateTask(ctx, form.CreateRequest())
	if err != nil {
		return nil, s.fail(ctx, "create task", err, msgCreateFailed)
	}
	s.logger.Info(ctx, "task created", "task_id", t.ID)
	s.notifier.Success(msgCreated)
	return t, nil
}

func (s *taskService) Update(ctx context.Context, id int64, form models.TaskForm) (*models.Task, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	t, err := s.api.UpdateTask(ctx, id, form.UpdateRequest())
	if err != nil {
		return nil, s.fail(ctx, "update task", err, msgUpdateFailed)
	}
	s.notifier.Success(msgUpdated)
	return t, nil
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return s.fail(ctx, "delete task", err, msgDeleteFailed)
	}
	s.logger.Info(ctx, "task deleted", "task_id", id)
	s.notifier.Success(msgDeleted)
	return nil
}

func (s *taskService) Complete(ctx context.Context, id int64) (*models.Task, error) {
	t, err := s.api.CompleteTask(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "complete task", err, msgCompleteFailed)
	}
	s.notifier.Success(msgCompleted)
	return t, nil
}

func (s *taskService) AssignToSelf(ctx context.Context, id int64) (*models.Task, error) {
	t, err := s.api.AssignToSelf(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "link task", err, msgLinkFailed)
	}
	s.notifier.Success(msgLinked)
	return t, nil
}

// AssignTo sets the responsible of a task (the admin flow). Only the
// responsible is sent.
func (s *taskService) AssignTo(ctx context.Context, id int64, userID *int64) (*models.Task, error) {
	if err := models.ValidateAssignee(userID); err != nil {
		return nil, err
	}
	t, err := s.api.UpdateTask(ctx, id, models.UpdateTaskRequest{ResponsibleUserID: userID})
	if err != nil {
		return nil, s.fail(ctx, "assign task", err, msgAssignFailed)
	}
	s.notifier.Success(msgAssigned)
	return t, nil
}

func (s *taskService) SearchUsers(ctx context.Context, query string) ([]models.UserOption, error) {
	users, err := s.api.SearchUsers(ctx, query)
	if err != nil {
		return nil, s.fail(ctx, "search users", err, msgUsersFailed)
	}
	return users, nil
}
