package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

const (
	msgAlreadyLoggedIn = "You are already logged in."
	msgNotLoggedIn     = "You are not logged in."
	msgUnavailable     = "Server unavailable, please try again later."

	msgSessionNotCleared = "Could not remove the saved session:"
)

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	if reason, ok := validation.Reason(err); ok {
		return reason
	}
	var se *client.ServerError
	if errors.As(err, &se) {
		return se.Error()
	}
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return msgUnavailable
	case errors.Is(err, services.ErrNotLoggedIn):
		return msgNotLoggedIn
	default:
		return "Error: " + err.Error()
	}
}

// askCredentials prompts for a username and password.
func (a *App) askCredentials() (string, []byte, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

// Register shows the registration form and submits it. On success the
// controller returns to the login form.
func (a *App) Register(ctx context.Context) error {
	if a.ctrl.State() == StateLoggedIn {
		fmt.Fprintln(a.out, msgAlreadyLoggedIn)
		return nil
	}
	a.fire(EventShowRegister, "")

	username, password, err := a.askCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.authService.Register(ctx, username, string(password)); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	a.fire(EventRegistered, "")
	return nil
}

// Login shows the login form and submits it.
func (a *App) Login(ctx context.Context) error {
	if a.ctrl.State() == StateLoggedIn {
		fmt.Fprintln(a.out, msgAlreadyLoggedIn)
		return nil
	}
	a.fire(EventShowLogin, "")

	username, password, err := a.askCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.authService.Login(ctx, username, string(password)); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	a.fire(EventLoggedIn, username)
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	if a.ctrl.State() != StateLoggedIn {
		fmt.Fprintln(a.out, msgNotLoggedIn)
		return nil
	}
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}
	a.fire(EventLoggedOut, "")
	return nil
}

// Whoami asks the server who the stored token belongs to. A rejected token
// ends the session.
func (a *App) Whoami(ctx context.Context) error {
	if a.ctrl.State() != StateLoggedIn {
		fmt.Fprintln(a.out, msgNotLoggedIn)
		return nil
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	id, err := a.authService.Whoami(ctx)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, services.ErrNotLoggedIn) {
			a.fire(EventSessionExpired, "")
			if clearErr := a.authService.Logout(ctx); clearErr != nil {
				fmt.Fprintln(a.out, msgSessionNotCleared, userMessage(clearErr))
				return errors.Join(err, clearErr)
			}
			return err
		}
		fmt.Fprintln(a.out, userMessage(err))
		return err
	}

	printIdentity(a.out, id)
	return nil
}

func printIdentity(w io.Writer, id *client.Identity) {
	fmt.Fprintf(w, "Logged in as %s (token issued %s)\n", id.Username, id.IssuedAt.Local().Format("2006-01-02 15:04:05"))
}
