package service

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateEmail      = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTodoNotFound        = errors.New("todo not found")
	ErrHolidayNotFound     = errors.New("holiday not found")
)

// ErrInvalidDateRange is a validation failure on the merged start and due
// dates.
var ErrInvalidDateRange = fmt.Errorf("%w: due date cannot be earlier than start date", ErrValidation)

// ValidationError names the first offending input field. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// asValidationError converts the result of an ozzo Validate call. Internal
// rule failures pass through untouched.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		var ierr validation.InternalError
		if errors.As(err, &ierr) {
			return err
		}
		return &ValidationError{Message: err.Error()}
	}

	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		if errs[f] != nil {
			return &ValidationError{Field: f, Message: errs[f].Error()}
		}
	}
	return nil
}
