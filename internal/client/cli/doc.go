// Package cli provides the interactive taskdesk command-line client.
//
// It wires configuration, the session store, the REST client, the session
// manager, the notification queue and the services, and runs a REPL on top
// of them. Notifications are printed by a background renderer as they are
// pushed and expire on their own.
//
// Key features:
//   - Register / Login / Logout / Whoami
//   - List (with filters) / Show / Add / Edit / Delete tasks
//   - Conclude, take or (admins) assign tasks
//   - Search users
//   - Show or dismiss notifications
//
// Protected commands require a live session; a refused command is replayed
// after the next successful login. The REPL is started via App.Run(ctx),
// which blocks until the user exits. See App and runREPL for details.
package cli
