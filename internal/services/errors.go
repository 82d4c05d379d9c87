package services

import "errors"

// Sentinel errors the handlers map to HTTP statuses.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrChatNotFound       = errors.New("chat not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
