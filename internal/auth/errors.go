package auth

import "errors"

var (
	ErrMissingToken       = errors.New("auth: missing token")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrForbidden          = errors.New("auth: insufficient permissions")
	ErrDuplicateUsername  = errors.New("auth: username already exists")
	ErrInvalidRole        = errors.New("auth: role must be BASIC or ADMIN")
	ErrInvalidCredentials = errors.New("auth: invalid login credentials")
	ErrInvalidInput       = errors.New("auth: invalid input")
)
