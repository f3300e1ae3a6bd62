package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	State() State
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a. Which
// commands are offered depends on the controller state:
//
//	Login or register form:
//	  - help           show available commands
//	  - register       open and submit the registration form
//	  - login          open and submit the login form
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - whoami         ask the server who the session belongs to
//	  - logout         forget the session
//	  - exit | quit    leave the program
//
// Handlers print their own errors. The loop exits on EOF, exit, quit, or
// context cancellation.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("gophauth (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		loggedIn := a.State() == StateLoggedIn

		switch {
		case cmd == "help":
			if loggedIn {
				printlnFn("Available commands: whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case cmd == "register" && !loggedIn:
			_ = a.Register(ctx)

		case cmd == "login" && !loggedIn:
			_ = a.Login(ctx)

		case cmd == "whoami" && loggedIn:
			_ = a.Whoami(ctx)

		case cmd == "logout" && loggedIn:
			_ = a.Logout(ctx)

		case cmd == "exit", cmd == "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
