// Package validation holds the field-level checks applied to
// registration input. The checks are pure: no I/O, no state.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"webauth/internal/models"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 8
)

// emailPattern accepts a local part of word characters, hyphens and
// dots, then one or more dot-separated labels with an alphabetic
// top-level label of at least two characters.
var emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w\-]+\.)+[a-zA-Z]{2,}$`)

// Error is a user-correctable input problem. Its message is shown to
// the user verbatim.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(msg string) error { return &Error{Message: msg} }

// ValidateRegistration runs the registration checks in fixed order and
// reports the first violated rule. A nil return means the form passed.
func ValidateRegistration(f models.RegisterForm) error {
	if len(f.Username) < usernameMinLen || len(f.Username) > usernameMaxLen {
		return fail("Username must be between 3 and 20 characters long.")
	}
	if strings.IndexFunc(f.Username, unicode.IsSpace) >= 0 {
		return fail("Username cannot contain spaces.")
	}
	if len(f.Password) < passwordMinLen {
		return fail("Password must be at least 8 characters long.")
	}
	if f.Password != f.PasswordConfirm {
		return fail("Password and confirmation do not match.")
	}
	if !ValidEmail(f.Email) {
		return fail("Invalid email format.")
	}
	return nil
}

// ValidEmail reports whether addr is syntactically acceptable.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}
