package client

import (
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// ServerError is a failure answered by the server. Msg is shown to the user,
// Err is the matching sentinel.
type ServerError struct {
	Msg string
	Err error
}

func (e *ServerError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Err.Error()
}

func (e *ServerError) Unwrap() error { return e.Err }

func serverError(msg string, sentinel error) error {
	if sentinel == nil {
		sentinel = common.ErrorInternal
	}
	return &ServerError{Msg: msg, Err: sentinel}
}
