package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrNameTaken           = errors.New("name already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmptyCatalog        = errors.New("case catalog is empty")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionCompleted    = errors.New("session already completed")
	ErrAlreadySettled      = errors.New("session already settled")
	ErrUpstreamUnavailable = errors.New("generation service unavailable")
	ErrUpstreamTimeout     = errors.New("generation service timed out")
)
