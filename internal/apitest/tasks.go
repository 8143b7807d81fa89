package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/labstack/echo/v4"
)

func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, badRequest("Identificador inválido: " + c.Param("id"))
	}
	return id, nil
}

func (s *Server) taskLocked(id int64) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, notFound("Tarefa não encontrada com id: " + strconv.FormatInt(id, 10))
	}
	return t, nil
}

// ensureCanModify lets admins change anything and everyone else change only
// their own unconcluded tasks.
func ensureCanModify(t *models.Task, actor *user) error {
	if actor.isAdmin() {
		return nil
	}
	if t.Status == models.StatusDone {
		return forbidden("Usuários padrão não podem alterar ou remover tarefas concluídas.")
	}
	if t.ResponsibleID == nil || *t.ResponsibleID != actor.ID {
		return forbidden("Você não tem permissão para alterar esta tarefa.")
	}
	return nil
}

func (s *Server) handleGetTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.taskLocked(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleSearchTasks(c echo.Context) error {
	actor := actorFrom(c)

	title := strings.ToLower(strings.TrimSpace(c.QueryParam("title")))
	responsible := strings.ToLower(strings.TrimSpace(c.QueryParam("responsible")))

	var priority models.Priority
	if p := c.QueryParam("priority"); p != "" {
		priority = models.Priority(p)
		if priority != models.PriorityHigh && priority != models.PriorityMedium && priority != models.PriorityLow {
			return badRequest("Prioridade inválida: " + p)
		}
	}

	var from, to models.Date
	if v := c.QueryParam("deadlineFrom"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return badRequest("Data inválida: " + v)
		}
		from = d
	}
	if v := c.QueryParam("deadlineTo"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return badRequest("Data inválida: " + v)
		}
		to = d
	}

	onlyNotConcluded := true
	if v := c.QueryParam("onlyNotConcluded"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest("Valor inválido para onlyNotConcluded: " + v)
		}
		onlyNotConcluded = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Task{}
	for _, t := range s.tasks {
		if title != "" && !strings.Contains(strings.ToLower(t.Title), title) {
			continue
		}
		if responsible != "" && !strings.Contains(strings.ToLower(t.Responsible), responsible) {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		if onlyNotConcluded && t.Status == models.StatusDone {
			continue
		}
		if !from.IsZero() && t.Deadline.Before(from) {
			continue
		}
		if !to.IsZero() && t.Deadline.After(to) {
			continue
		}
		if !actor.isAdmin() && t.ResponsibleID != nil && *t.ResponsibleID != actor.ID {
			continue
		}
		out = append(out, *t)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}
		if pa, pb := priorityOrder(a.Priority), priorityOrder(b.Priority); pa != pb {
			return pa < pb
		}
		return a.ID < b.ID
	})

	return c.JSON(http.StatusOK, out)
}

func priorityOrder(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 1
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 3
	}
	return 4
}

func validateTaskFields(title *string, priority *models.Priority, deadline *models.Date, required bool) []fieldError {
	var fe []fieldError
	if title != nil || required {
		switch {
		case title == nil || strings.TrimSpace(*title) == "":
			fe = append(fe, fieldError{Field: "title", Message: "must not be blank"})
		case len([]rune(*title)) > 200:
			fe = append(fe, fieldError{Field: "title", Message: "size must be between 0 and 200"})
		}
	}
	if required && (priority == nil || *priority == "") {
		fe = append(fe, fieldError{Field: "priority", Message: "must not be null"})
	}
	if required && (deadline == nil || deadline.IsZero()) {
		fe = append(fe, fieldError{Field: "deadline", Message: "must not be null"})
	}
	return fe
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req models.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Corpo da requisição inválido.")
	}
	if fe := validateTaskFields(&req.Title, &req.Priority, &req.Deadline, true); len(fe) > 0 {
		return invalidFields(fe)
	}

	if req.ResponsibleUserID != nil {
		s.mu.Lock()
		_, ok := s.users[*req.ResponsibleUserID]
		s.mu.Unlock()
		if !ok {
			return notFound("Usuário não encontrado com id: " + strconv.FormatInt(*req.ResponsibleUserID, 10))
		}
	}

	created := s.AddTask(models.Task{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Deadline:      req.Deadline,
		Status:        req.Status,
		ResponsibleID: req.ResponsibleUserID,
	})
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	var req models.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Corpo da requisição inválido.")
	}
	if fe := validateTaskFields(req.Title, req.Priority, req.Deadline, false); len(fe) > 0 {
		return invalidFields(fe)
	}

	actor := actorFrom(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.taskLocked(id)
	if err != nil {
		return err
	}

	var responsible *user
	if req.ResponsibleUserID != nil {
		u, ok := s.users[*req.ResponsibleUserID]
		if !ok {
			return notFound("Usuário não encontrado com id: " + strconv.FormatInt(*req.ResponsibleUserID, 10))
		}
		responsible = u
	}

	selfLinkOnly := t.ResponsibleID == nil && responsible != nil && responsible.ID == actor.ID &&
		req.Title == nil && req.Description == nil && req.Priority == nil && req.Deadline == nil && req.Status == nil
	if !selfLinkOnly {
		if err := ensureCanModify(t, actor); err != nil {
			return err
		}
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Deadline != nil {
		t.Deadline = *req.Deadline
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if responsible != nil {
		rid := responsible.ID
		t.ResponsibleID = &rid
		t.Responsible = responsible.Name
	}
	t.UpdatedAt = s.now()

	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.taskLocked(id)
	if err != nil {
		return err
	}
	if err := ensureCanModify(t, actor); err != nil {
		return err
	}
	delete(s.tasks, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCompleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.taskLocked(id)
	if err != nil {
		return err
	}
	if err := ensureCanModify(t, actor); err != nil {
		return err
	}
	t.Status = models.StatusDone
	t.UpdatedAt = s.now()
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleLinkToSelf(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	actor := actorFrom(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.taskLocked(id)
	if err != nil {
		return err
	}
	if t.Status == models.StatusDone {
		return forbidden("Não é possível vincular responsável em tarefas concluídas.")
	}
	if t.ResponsibleID != nil && *t.ResponsibleID != actor.ID {
		return forbidden("Tarefa já possui responsável.")
	}

	aid := actor.ID
	t.ResponsibleID = &aid
	t.Responsible = actor.Name
	t.UpdatedAt = s.now()
	return c.JSON(http.StatusOK, t)
}
