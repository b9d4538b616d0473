// Package cli provides the interactive Altron command-line client.
//
// It wires configuration, the local state database, the vault service, and an
// interactive REPL. Typical flow: attempt a silent session restore, start the
// background session expiry watcher, and execute user commands.
//
// Key features:
//   - Create / Unlock / Lock a vault bound to a user-chosen folder
//   - Add, list, search, show, and delete stored credentials
//   - Generate passwords with a strength rating
//   - Persisted theme preference
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
