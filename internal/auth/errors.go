package auth

import "errors"

var (
	ErrInvalidToken    = errors.New("auth: invalid token")
	ErrTokenExpired    = errors.New("auth: token expired")
	ErrTokenRevoked    = errors.New("auth: token revoked")
	ErrAccountNotFound = errors.New("auth: account not found")
	ErrAccessDenied    = errors.New("auth: access denied")
)
