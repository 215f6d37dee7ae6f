package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenGenerateFail  = errors.New("failed to generate token")
	ErrNotUniqueEmail     = errors.New("user with this email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpToken           = errors.New("expired token")
	ErrUserDeactivated    = errors.New("user account is deactivated")
)
