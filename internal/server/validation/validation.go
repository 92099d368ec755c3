// Package validation holds the request shapes accepted by the auth API and
// their ozzo-validation rules.
package validation

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	UsernameMinLen = 6
	UsernameMaxLen = 16
	PasswordMinLen = 8
	PasswordMaxLen = 32
	EmailMaxLen    = 254
	GroupMaxLen    = 64
	passwordSymbol = "@$!%*?&"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// RegisterRequest is the body of a registration call.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(UsernameMinLen, UsernameMaxLen),
			validation.Match(usernamePattern).Error("must start with a letter and contain only letters and digits"),
		),
		validation.Field(
			&r.Email,
			validation.Required,
			validation.Length(3, EmailMaxLen),
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(PasswordMinLen, PasswordMaxLen),
			validation.By(passwordStrength),
		),
	)
}

// LoginRequest is the body of a login call. Only presence is checked so the
// response never hints at which registration rule a guess breaks.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, UsernameMaxLen)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 1024)),
	)
}

// AssignGroupRequest names the group a user is added to.
type AssignGroupRequest struct {
	Group string `json:"group"`
}

func (r AssignGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Group, validation.Required, validation.Length(1, GroupMaxLen)),
	)
}

var errWeakPassword = errors.New("must contain a lower-case letter, an upper-case letter, a digit and one of " + passwordSymbol)

func passwordStrength(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	var lower, upper, digit, symbol bool
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbol, c):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return errWeakPassword
	}
	return nil
}
