package validators

import (
	"errors"
	"net/mail"
)

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username can't be longer than 32 characters")
	ErrEmailEmpty      = errors.New("no email address provided")
	ErrEmailInvalid    = errors.New("invalid email address provided")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters long")
)

func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) > 32 {
		return ErrUsernameTooLong
	}

	return nil
}

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if _, err := mail.ParseAddress(e); err != nil {
		return ErrEmailInvalid
	}

	return nil
}

func PasswordValidator(p string) error {
	if len(p) < 8 {
		return ErrPasswordTooWeak
	}

	return nil
}
