package domain

import "errors"

// Common domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNetwork       = errors.New("backend unreachable")
	ErrInternalError = errors.New("internal error")
)

// Session errors
var (
	ErrInvalidCredential  = errors.New("credential cannot be decoded")
	ErrInvalidCredentials = errors.New("invalid e-mail or password")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrSessionBusy        = errors.New("session operation already in progress")
	ErrNotInitialized     = errors.New("session not initialized")
)
