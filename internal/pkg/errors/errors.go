package errors

import "errors"

// Custom application errors
var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM")
	ErrInvalidDaypart   = errors.New("invalid daypart")
	ErrStorageOperation = errors.New("storage operation failed")
	ErrScheduling       = errors.New("scheduling failed")
	ErrNotification     = errors.New("notification dispatch failed")
	ErrBackendAPI       = errors.New("backend API request failed")
	ErrInternalServer   = errors.New("internal server error")
)
