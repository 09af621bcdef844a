package task

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrNameTooLong is returned when a task name exceeds the configured limit.
	ErrNameTooLong = errors.New("task name too long")
	// ErrEmptyName is returned when a task name is blank.
	ErrEmptyName = errors.New("task name is empty")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Field or JSON path the error refers to
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DateError reports a due date that could not be parsed.
type DateError struct {
	Input string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid due date %q (want MM/DD/YYYY): %v", e.Input, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *DateError) Unwrap() error {
	return e.Err
}
