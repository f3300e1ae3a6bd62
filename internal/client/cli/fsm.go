package cli

import (
	"errors"
	"fmt"
)

type State int

const (
	StateLoggedOutLogin State = iota
	StateLoggedOutRegister
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOutLogin:
		return "login"
	case StateLoggedOutRegister:
		return "register"
	case StateLoggedIn:
		return "logged-in"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Event int

const (
	EventShowLogin Event = iota
	EventShowRegister
	EventRegistered
	EventLoggedIn
	EventLoggedOut
	EventSessionExpired
)

func (e Event) String() string {
	switch e {
	case EventShowLogin:
		return "show-login"
	case EventShowRegister:
		return "show-register"
	case EventRegistered:
		return "registered"
	case EventLoggedIn:
		return "logged-in"
	case EventLoggedOut:
		return "logged-out"
	case EventSessionExpired:
		return "session-expired"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Notices shown after a transition.
const (
	NoticeRegistered     = "User registered successfully"
	NoticeWelcome        = "Welcome! You are logged in."
	NoticeLoggedOut      = "You have been logged out."
	NoticeSessionExpired = "Your session has expired, please log in again."
)

var ErrInvalidTransition = errors.New("invalid transition")

type transition struct {
	to     State
	notice string
}

var transitions = map[State]map[Event]transition{
	StateLoggedOutLogin: {
		EventShowLogin:    {to: StateLoggedOutLogin},
		EventShowRegister: {to: StateLoggedOutRegister},
		EventLoggedIn:     {to: StateLoggedIn, notice: NoticeWelcome},
	},
	StateLoggedOutRegister: {
		EventShowRegister: {to: StateLoggedOutRegister},
		EventShowLogin:    {to: StateLoggedOutLogin},
		EventRegistered:   {to: StateLoggedOutLogin, notice: NoticeRegistered},
	},
	StateLoggedIn: {
		EventLoggedOut:      {to: StateLoggedOutLogin, notice: NoticeLoggedOut},
		EventSessionExpired: {to: StateLoggedOutLogin, notice: NoticeSessionExpired},
	},
}

// Controller holds the current view and the signed-in username.
// It is not safe for concurrent use.
type Controller struct {
	state    State
	username string
}

func NewController() *Controller {
	return &Controller{state: StateLoggedOutLogin}
}

func (c *Controller) State() State     { return c.state }
func (c *Controller) Username() string { return c.username }

// Fire applies ev. username is only read for EventLoggedIn. It returns the
// notice to show, possibly empty. Unknown (state, event) pairs leave the
// controller untouched.
func (c *Controller) Fire(ev Event, username string) (string, error) {
	t, ok := transitions[c.state][ev]
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, c.state)
	}

	c.state = t.to
	switch t.to {
	case StateLoggedIn:
		c.username = username
	default:
		c.username = ""
	}
	return t.notice, nil
}
