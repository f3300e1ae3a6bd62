// Package validation holds the credential policy shared by the server and
// the terminal client: ordered password-strength rules for registration and
// a presence check for login.
package validation

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is counted in characters, not bytes.
const MinPasswordLength = 8

const (
	MsgFillAllFields    = "Please fill in all fields."
	MsgPasswordTooShort = "Password must be at least 8 characters long."
	MsgMissingUpper     = "Password must contain at least one uppercase letter."
	MsgMissingLower     = "Password must contain at least one lowercase letter."
	MsgMissingDigit     = "Password must contain at least one digit."
	MsgMissingSpecial   = "Password must contain at least one special character."
)

// Error is a policy violation. Reason is safe to show to the user.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Unwrap() error { return common.ErrInvalidInput }

// Reason extracts the user-facing message from err if it is a policy
// violation.
func Reason(err error) (string, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

// Credentials is the username/password pair as submitted.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

type rule struct {
	msg string
	ok  func(password string) bool
}

var passwordRules = []rule{
	{MsgPasswordTooShort, func(p string) bool { return utf8.RuneCountInString(p) >= MinPasswordLength }},
	{MsgMissingUpper, func(p string) bool { return containsRune(p, isUpper) }},
	{MsgMissingLower, func(p string) bool { return containsRune(p, isLower) }},
	{MsgMissingDigit, func(p string) bool { return containsRune(p, isDigit) }},
	{MsgMissingSpecial, func(p string) bool {
		return containsRune(p, func(r rune) bool { return !isUpper(r) && !isLower(r) && !isDigit(r) })
	}},
}

// CheckPresence fails when either field is empty.
func CheckPresence(username, password string) error {
	if err := getValidator().Struct(Credentials{Username: username, Password: password}); err != nil {
		return &Error{Reason: MsgFillAllFields}
	}
	return nil
}

// CheckRegistration applies the registration rules in order and reports the
// first one violated.
func CheckRegistration(username, password string) error {
	if err := CheckPresence(username, password); err != nil {
		return err
	}
	for _, r := range passwordRules {
		if !r.ok(password) {
			return &Error{Reason: r.msg}
		}
	}
	return nil
}

// CheckLogin only requires both fields. Strength is not re-checked at login.
func CheckLogin(username, password string) error {
	return CheckPresence(username, password)
}

// Character classes are ASCII only.
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func containsRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}
