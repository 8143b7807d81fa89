package services

import "github.com/dmitrijs2005/taskdesk/internal/client/models"

// Actor is the user a permission check is made for.
type Actor struct {
	UserID int64
	Admin  bool
}

// ActorOf derives an Actor from a login response.
func ActorOf(u *models.LoginResponse) Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{UserID: u.UserID, Admin: u.HasRole(models.RoleAdmin)}
}

// Action is an operation offered on a task.
type Action string

const (
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionLink     Action = "link"
	ActionConclude Action = "conclude"
)

// CanEdit: admins edit anything, users only their own open tasks.
func CanEdit(a Actor, t models.Task) bool {
	if a.Admin {
		return true
	}
	return t.ResponsibleID != nil && *t.ResponsibleID == a.UserID && !t.IsDone()
}

func CanDelete(a Actor, t models.Task) bool { return CanEdit(a, t) }

// CanLink reports whether a responsible can still be linked.
func CanLink(_ Actor, t models.Task) bool {
	return !t.IsDone() && !t.HasResponsible()
}

func CanConclude(a Actor, t models.Task) bool {
	return CanEdit(a, t) && !t.IsDone()
}

// Actions lists the operations offered on t. Edit and delete are always
// offered since the server has the final say.
func Actions(a Actor, t models.Task) []Action {
	out := []Action{ActionEdit, ActionDelete}
	if CanLink(a, t) {
		out = append(out, ActionLink)
	}
	if CanConclude(a, t) {
		out = append(out, ActionConclude)
	}
	return out
}
