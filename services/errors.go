package services

import "errors"

// Engine error taxonomy. Controllers map these to HTTP codes with errors.Is;
// everything else is treated as a storage/internal failure.
var (
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrRoomConflict       = errors.New("room already booked for the requested dates")
	ErrInvalidDateRange   = errors.New("end date must be after start date")
	ErrInvalidAmount      = errors.New("payment amount must be greater than zero")
	ErrNotFound           = errors.New("record not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidPassword    = errors.New("incorrect password")
	ErrConfigMissing      = errors.New("deletion password not configured")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
