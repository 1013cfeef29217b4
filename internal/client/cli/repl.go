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
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ShowUser(ctx context.Context, id string) error
	Follow(ctx context.Context, id string) error
	Unfollow(ctx context.Context, id string) error
	Block(ctx context.Context, id string) error
	Unblock(ctx context.Context, id string) error
	Privacy(ctx context.Context, args []string) error
	Upload(ctx context.Context, kind string, path string) error
}

// runREPL starts a simple read–eval–print loop for the reader CLI.
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
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the signed-in identity
//	  - profile        — show the full profile
//	  - edit           — edit profile fields interactively
//	  - show <id>      — look up a user by id
//	  - follow <id>    — subscribe to a user
//	  - unfollow <id>  — unsubscribe from a user
//	  - block <id>     — block a user
//	  - unblock <id>   — unblock a user
//	  - privacy ...    — show or change privacy settings
//	  - upload <kind> <path> — upload an avatar or cover image
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rh> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, profile, edit, show, follow, unfollow, block, unblock, privacy, upload, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.ShowProfile(ctx)

		case "edit":
			_ = a.EditProfile(ctx)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.ShowUser(ctx, args[0])

		case "follow":
			if len(args) == 0 {
				printlnFn("Usage: follow <id>")
				continue
			}
			_ = a.Follow(ctx, args[0])

		case "unfollow":
			if len(args) == 0 {
				printlnFn("Usage: unfollow <id>")
				continue
			}
			_ = a.Unfollow(ctx, args[0])

		case "block":
			if len(args) == 0 {
				printlnFn("Usage: block <id>")
				continue
			}
			_ = a.Block(ctx, args[0])

		case "unblock":
			if len(args) == 0 {
				printlnFn("Usage: unblock <id>")
				continue
			}
			_ = a.Unblock(ctx, args[0])

		case "privacy":
			_ = a.Privacy(ctx, args)

		case "upload":
			if len(args) < 2 {
				printlnFn("Usage: upload <avatar|cover> <path>")
				continue
			}
			_ = a.Upload(ctx, args[0], args[1])

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
