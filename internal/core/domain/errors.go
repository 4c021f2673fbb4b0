package domain

import "errors"

var (
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAdminRoleRequired  = errors.New("only administrators can assign the admin role")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)
