package auth

import "errors"

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrUserNotFound = errors.New("user not found")
	ErrTokenInvalid = errors.New("invalid sign-in token")
	ErrTokenExpired = errors.New("sign-in token expired")
)
