package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/taskdesk/internal/client/notify"
)

// renderToasts prints every notification once, as it appears. It returns
// when snapshots is closed or ctx is done.
func (a *App) renderToasts(ctx context.Context, snapshots <-chan []notify.Notification) {
	last := 0
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			for _, n := range snap {
				if n.ID > last {
					a.printf("%s\n", formatToast(n))
					last = n.ID
				}
			}
		}
	}
}

// Toasts prints the notifications still visible.
func (a *App) Toasts(context.Context) error {
	snap := a.toasts.Snapshot()
	if len(snap) == 0 {
		a.println("No notifications.")
		return nil
	}
	for _, n := range snap {
		a.println(formatToast(n))
	}
	return nil
}

// Dismiss removes a notification before it expires.
func (a *App) Dismiss(_ context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: dismiss <id>")
		return errUsage
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		a.println("Usage: dismiss <id>")
		return errUsage
	}
	a.toasts.Dismiss(id)
	return nil
}

func formatToast(n notify.Notification) string {
	return "[" + string(n.Type) + " #" + strconv.Itoa(n.ID) + "] " + n.Text
}
