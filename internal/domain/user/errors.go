package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("email already used")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidEmail     = errors.New("email must be valid")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)
