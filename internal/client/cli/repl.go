package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isUnlocked() bool
	Create(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context) error
	Show(ctx context.Context) error
	Delete(ctx context.Context) error
	Clear(ctx context.Context) error
	Generate(ctx context.Context) error
	Theme(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the Altron CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Locked:
//	  - help           — show available commands
//	  - create         — set up a new vault in a folder
//	  - unlock         — open an existing vault with the master key
//	  - gen            — generate a password
//	  - theme          — show or switch the color theme
//	  - exit | quit    — leave the program
//
//	Unlocked:
//	  - help           — show available commands
//	  - add            — store a new credential
//	  - list           — list stored credentials
//	  - search         — find credentials by label
//	  - show           — reveal a single credential (interactive ID prompt)
//	  - delete         — remove a credential (with confirmation)
//	  - clear          — remove every credential (with confirmation)
//	  - gen            — generate a password
//	  - theme          — show or switch the color theme
//	  - lock           — close the vault and drop the session
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("altron %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn("Available commands: add, (l)ist, search, show, delete, clear, gen, theme, lock, exit")
			} else {
				printlnFn("Available commands: create, unlock, gen, theme, exit")
			}

		case "create":
			_ = a.Create(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "add":
			_ = a.Add(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx)

		case "show":
			_ = a.Show(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "gen":
			_ = a.Generate(ctx)

		case "theme":
			_ = a.Theme(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
