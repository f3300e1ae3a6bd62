package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_StartsAtLogin(t *testing.T) {
	c := NewController()
	assert.Equal(t, StateLoggedOutLogin, c.State())
	assert.Empty(t, c.Username())
}

func TestController_AllPairs(t *testing.T) {
	type result struct {
		to     State
		notice string
		ok     bool
	}

	states := []State{StateLoggedOutLogin, StateLoggedOutRegister, StateLoggedIn}
	events := []Event{EventShowLogin, EventShowRegister, EventRegistered, EventLoggedIn, EventLoggedOut, EventSessionExpired}

	want := map[State]map[Event]result{
		StateLoggedOutLogin: {
			EventShowLogin:    {StateLoggedOutLogin, "", true},
			EventShowRegister: {StateLoggedOutRegister, "", true},
			EventLoggedIn:     {StateLoggedIn, NoticeWelcome, true},
		},
		StateLoggedOutRegister: {
			EventShowLogin:    {StateLoggedOutLogin, "", true},
			EventShowRegister: {StateLoggedOutRegister, "", true},
			EventRegistered:   {StateLoggedOutLogin, NoticeRegistered, true},
		},
		StateLoggedIn: {
			EventLoggedOut:      {StateLoggedOutLogin, NoticeLoggedOut, true},
			EventSessionExpired: {StateLoggedOutLogin, NoticeSessionExpired, true},
		},
	}

	for _, from := range states {
		for _, ev := range events {
			t.Run(from.String()+"/"+ev.String(), func(t *testing.T) {
				c := &Controller{state: from}
				if from == StateLoggedIn {
					c.username = "alice"
				}

				notice, err := c.Fire(ev, "bob")
				exp := want[from][ev]

				if !exp.ok {
					require.ErrorIs(t, err, ErrInvalidTransition)
					assert.Equal(t, from, c.State(), "state must not change")
					return
				}

				require.NoError(t, err)
				assert.Equal(t, exp.to, c.State())
				assert.Equal(t, exp.notice, notice)
				if exp.to == StateLoggedIn {
					assert.Equal(t, "bob", c.Username())
				} else {
					assert.Empty(t, c.Username())
				}
			})
		}
	}
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "register", StateLoggedOutRegister.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.Equal(t, "session-expired", EventSessionExpired.String())
	assert.Equal(t, "Event(42)", Event(42).String())
}
