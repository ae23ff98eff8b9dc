package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Montage error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrConflict       ErrorCode = "CONFLICT"        // 409
	ErrTrackNotEmpty  ErrorCode = "TRACK_NOT_EMPTY" // 409
	ErrUnknownAction  ErrorCode = "UNKNOWN_ACTION"  // 422
	ErrMalformedData  ErrorCode = "MALFORMED_DATA"  // 422
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// MontageError represents a structured error with code, status, and details.
type MontageError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MontageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MontageError {
	return &MontageError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing clip, track, or log entry.
func NewNotFound(entity string, id int64) *MontageError {
	return &MontageError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %d", entity, id),
		Details: map[string]any{"entity": entity, "id": id},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *MontageError {
	return &MontageError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewTrackNotEmpty creates a 409 error for deleting a track that still holds clips.
func NewTrackNotEmpty(trackID int64, clips int) *MontageError {
	return &MontageError{
		Code:    ErrTrackNotEmpty,
		Status:  409,
		Message: fmt.Sprintf("track %d still has %d clip(s); move or delete them first", trackID, clips),
		Details: map[string]any{"track_id": trackID, "clips": clips},
	}
}

// NewUnknownAction creates a 422 error for a change-log action with no
// registered command variant. Undo/redo cannot proceed for that entry.
func NewUnknownAction(action string) *MontageError {
	return &MontageError{
		Code:    ErrUnknownAction,
		Status:  422,
		Message: fmt.Sprintf("unknown command action: %q", action),
		Details: map[string]any{"action": action},
	}
}

// NewMalformedData creates a 422 error for change-log payloads that fail to decode.
func NewMalformedData(action string, err error) *MontageError {
	msg := fmt.Sprintf("malformed %s payload", action)
	if err != nil {
		msg = fmt.Sprintf("malformed %s payload: %v", action, err)
	}
	return &MontageError{
		Code:    ErrMalformedData,
		Status:  422,
		Message: msg,
		Details: map[string]any{"action": action},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the original error is kept in Details for logging.
func NewInternal(err error) *MontageError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &MontageError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or any error it wraps) is a MontageError with the given code.
func Is(err error, code ErrorCode) bool {
	var mErr *MontageError
	if stderrors.As(err, &mErr) {
		return mErr.Code == code
	}
	return false
}
