package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("actor is not authorized")
	ErrReadDatabaseRow = errors.New("failed to read database row")
	// ErrInvalidExecContext is returned when a repository receives a tx
	// handle of an unknown concrete type.
	ErrInvalidExecContext = errors.New("invalid execution context")

	// Code and binding validation errors. These map to user-facing
	// validation messages, not system faults.
	ErrCodeNotFound       = errors.New("activation code not found")
	ErrCodeExpired        = errors.New("activation code expired or revoked")
	ErrQuotaExceeded      = errors.New("free code quota exceeded")
	ErrGroupQuotaExceeded = errors.New("code reached its group limit")
	ErrAlreadyConnected   = errors.New("conversation already connected to this code")
	ErrBoundToOtherCode   = errors.New("conversation is bound to a different code")
	ErrNotRegistered      = errors.New("conversation has no registered code")

	// ErrChatBusy is returned when the per-conversation lock cannot be taken.
	ErrChatBusy = errors.New("conversation is busy, try again")
)
