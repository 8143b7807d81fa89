package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskdesk/internal/client/models"
	"github.com/dmitrijs2005/taskdesk/internal/client/services"
)

var (
	errUsage      = errors.New("invalid usage")
	errNotAllowed = errors.New("action not allowed")
)

// List searches tasks. Flags:
//
//	-title string        title contains
//	-responsible string  responsible name contains
//	-priority string     ALTA|MEDIA|BAIXA (or high|medium|low)
//	-from date           deadline from, DD/MM/YYYY or YYYY-MM-DD
//	-to date             deadline to
//	-all                 include concluded tasks
func (a *App) List(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.out)
	title := fs.String("title", "", "title contains")
	responsible := fs.String("responsible", "", "responsible name contains")
	priority := fs.String("priority", "", "ALTA|MEDIA|BAIXA")
	from := fs.String("from", "", "deadline from")
	to := fs.String("to", "", "deadline to")
	all := fs.Bool("all", false, "include concluded tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := models.TaskFilter{Title: *title, Responsible: *responsible}
	var err error
	if *priority != "" {
		if filter.Priority, err = models.ParsePriority(*priority); err != nil {
			a.println(err)
			return err
		}
	}
	if filter.DeadlineFrom, err = parseOptionalDate(*from); err != nil {
		a.println(err)
		return err
	}
	if filter.DeadlineTo, err = parseOptionalDate(*to); err != nil {
		a.println(err)
		return err
	}
	if *all {
		onlyOpen := false
		filter.OnlyNotConcluded = &onlyOpen
	}

	tasks, err := a.tasks.List(ctx, filter)
	if errors.Is(err, services.ErrStaleResponse) {
		return nil
	}
	if err != nil {
		return err
	}

	actor, _ := a.auth.Actor(ctx)
	a.renderTasks(tasks, actor)
	return nil
}

// Show prints one task with the actions available to the current user.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.taskID(args, "show <id>")
	if err != nil {
		return err
	}
	task, err := a.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	actor, _ := a.auth.Actor(ctx)

	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s\n", task.ID, task.Title)
	if task.Description != nil && *task.Description != "" {
		fmt.Fprintf(&b, "  %s\n", strings.ReplaceAll(*task.Description, "\n", "\n  "))
	}
	fmt.Fprintf(&b, "Priority:    %s\n", task.Priority.Label())
	fmt.Fprintf(&b, "Deadline:    %s\n", task.Deadline.FormatBR())
	fmt.Fprintf(&b, "Status:      %s\n", task.Status.Label())
	fmt.Fprintf(&b, "Responsible: %s\n", responsibleLabel(*task))
	fmt.Fprintf(&b, "Actions:     %s\n", actionsLabel(services.Actions(actor, *task)))
	a.printf("%s", b.String())
	return nil
}

// Add prompts for a new task and creates it.
func (a *App) Add(ctx context.Context) error {
	form := models.NewTaskForm()
	if err := a.fillTaskForm(ctx, &form, false); err != nil {
		return err
	}

	task, err := a.tasks.Create(ctx, form)
	if err != nil {
		a.reportValidation(err)
		return err
	}
	a.printf("Created task #%d.\n", task.ID)
	return nil
}

// Edit prompts for new values of a task the user may edit. Empty input
// keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	task, err := a.allowedTask(ctx, args, "edit <id>", services.CanEdit)
	if err != nil {
		return err
	}

	form := models.EditTaskForm(*task)
	if err := a.fillTaskForm(ctx, &form, true); err != nil {
		return err
	}

	if _, err := a.tasks.Update(ctx, task.ID, form); err != nil {
		a.reportValidation(err)
		return err
	}
	return nil
}

// Delete removes a task after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	task, err := a.allowedTask(ctx, args, "delete <id>", services.CanDelete)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete task #%d %q? (y/N)", task.ID, task.Title), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.println("Cancelled.")
		return nil
	}
	return a.tasks.Delete(ctx, task.ID)
}

// Done marks a task as concluded.
func (a *App) Done(ctx context.Context, args []string) error {
	task, err := a.allowedTask(ctx, args, "done <id>", services.CanConclude)
	if err != nil {
		return err
	}
	_, err = a.tasks.Complete(ctx, task.ID)
	return err
}

// Take makes the current user responsible for an unassigned open task.
func (a *App) Take(ctx context.Context, args []string) error {
	task, err := a.allowedTask(ctx, args, "take <id>", services.CanLink)
	if err != nil {
		return err
	}
	_, err = a.tasks.AssignToSelf(ctx, task.ID)
	return err
}

// Assign sets the responsible of a task. Administrators only.
func (a *App) Assign(ctx context.Context, args []string) error {
	if !a.session.HasRole(ctx, models.RoleAdmin) {
		a.println("Only administrators can assign tasks.")
		return errNotAllowed
	}
	if len(args) != 2 {
		a.println("Usage: assign <id> <userID>")
		return errUsage
	}
	id, err := a.taskID(args[:1], "assign <id> <userID>")
	if err != nil {
		return err
	}
	userID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		a.println("Usage: assign <id> <userID>")
		return errUsage
	}

	if _, err := a.tasks.AssignTo(ctx, id, &userID); err != nil {
		a.reportValidation(err)
		return err
	}
	return nil
}

// Users lists users matching the optional query, for picking a responsible.
func (a *App) Users(ctx context.Context, args []string) error {
	opts, err := a.tasks.SearchUsers(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		a.println("No users found.")
		return nil
	}

	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER")
	for _, o := range opts {
		fmt.Fprintf(tw, "%d\t%s\n", o.Value, o.Label)
	}
	_ = tw.Flush()
	a.printf("%s", b.String())
	return nil
}

// ---- helpers ----

// clearValue, typed as the description, empties it.
const clearValue = "-"

// fillTaskForm prompts for every task field. Pressing Enter keeps the value
// already in form. Status is only asked when editing.
func (a *App) fillTaskForm(ctx context.Context, form *models.TaskForm, editing bool) error {
	title, err := getSimpleText(a.reader, withDefault("Title", form.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		form.Title = title
	}

	descPrompt := withDefault("Description", firstLine(form.Description))
	if form.Description != "" {
		descPrompt += " ('" + clearValue + "' clears)"
	}
	desc, err := getMultiline(a.reader, descPrompt, a.out)
	if err != nil {
		return err
	}
	switch desc {
	case "":
	case clearValue:
		form.Description = ""
	default:
		form.Description = desc
	}

	p, err := getSimpleText(a.reader, withDefault("Priority (ALTA/MEDIA/BAIXA)", string(form.Priority)), a.out)
	if err != nil {
		return err
	}
	if p != "" {
		if form.Priority, err = models.ParsePriority(p); err != nil {
			a.println(err)
			return err
		}
	}

	current := ""
	if !form.Deadline.IsZero() {
		current = form.Deadline.FormatBR()
	}
	d, err := getSimpleText(a.reader, withDefault("Deadline (DD/MM/YYYY)", current), a.out)
	if err != nil {
		return err
	}
	if d != "" {
		if form.Deadline, err = models.ParseDate(d); err != nil {
			a.println(err)
			return err
		}
	}

	if editing {
		s, err := getSimpleText(a.reader, withDefault("Status (EM_ANDAMENTO/CONCLUIDA)", string(form.Status)), a.out)
		if err != nil {
			return err
		}
		if s != "" {
			if form.Status, err = models.ParseStatus(s); err != nil {
				a.println(err)
				return err
			}
		}
	}

	if a.session.HasRole(ctx, models.RoleAdmin) {
		cur := ""
		if form.ResponsibleUserID != nil {
			cur = strconv.FormatInt(*form.ResponsibleUserID, 10)
		}
		r, err := getSimpleText(a.reader, withDefault("Responsible user id (see 'users')", cur), a.out)
		if err != nil {
			return err
		}
		if r != "" {
			uid, err := strconv.ParseInt(r, 10, 64)
			if err != nil {
				a.println("Responsible must be a numeric user id.")
				return errUsage
			}
			form.ResponsibleUserID = &uid
		}
	}
	return nil
}

// allowedTask loads the task named by args and checks allowed for the
// current user.
func (a *App) allowedTask(ctx context.Context, args []string, usage string, allowed func(services.Actor, models.Task) bool) (*models.Task, error) {
	id, err := a.taskID(args, usage)
	if err != nil {
		return nil, err
	}
	task, err := a.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	actor, _ := a.auth.Actor(ctx)
	if !allowed(actor, *task) {
		a.printf("You cannot do that with task #%d.\n", task.ID)
		return nil, errNotAllowed
	}
	return task, nil
}

func (a *App) taskID(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		a.println("Usage:", usage)
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		a.println("Usage:", usage)
		return 0, errUsage
	}
	return id, nil
}

func (a *App) renderTasks(tasks []models.Task, actor services.Actor) {
	if len(tasks) == 0 {
		a.println("No tasks found.")
		return
	}

	var b bytes.Buffer
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRIORITY\tDEADLINE\tSTATUS\tRESPONSIBLE\tACTIONS")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Priority.Label(), t.Deadline.FormatBR(), t.Status.Label(),
			responsibleLabel(t), actionsLabel(services.Actions(actor, t)))
	}
	_ = tw.Flush()
	a.printf("%s", b.String())
}

func parseOptionalDate(s string) (models.Date, error) {
	if strings.TrimSpace(s) == "" {
		return models.Date{}, nil
	}
	return models.ParseDate(s)
}

func responsibleLabel(t models.Task) string {
	if !t.HasResponsible() {
		return "-"
	}
	return t.Responsible
}

func actionsLabel(actions []services.Action) string {
	parts := make([]string, 0, len(actions))
	for _, act := range actions {
		parts = append(parts, string(act))
	}
	return strings.Join(parts, ",")
}

func withDefault(prompt, current string) string {
	if current == "" {
		return prompt
	}
	return fmt.Sprintf("%s [%s]", prompt, current)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
