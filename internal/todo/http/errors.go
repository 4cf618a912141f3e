package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/todo/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/aussiebroadwan/taskboard/pkg/todosdk"
)

// Codes written by this package on top of the httpx gate codes.
const (
	CodeDuplicateEmail      = todosdk.CodeDuplicateEmail
	CodeInvalidCredentials  = todosdk.CodeInvalidCredentials
	CodeNoRefreshToken      = todosdk.CodeNoRefreshToken
	CodeInvalidRefreshToken = todosdk.CodeInvalidRefreshToken
	CodeNotFound            = todosdk.CodeNotFound
)

// writeError maps a service or decode error onto the envelope. Anything
// unrecognised is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.Is(err, httpx.ErrBadJSON):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, "request body must be valid JSON")
	case errors.Is(err, service.ErrInvalidDateRange):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, "due date cannot be earlier than start date")
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, verr.Error())
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail):
		httpx.WriteError(w, http.StatusBadRequest, CodeDuplicateEmail, "email is already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		httpx.WriteError(w, http.StatusUnauthorized, CodeInvalidRefreshToken, "refresh token is invalid or expired")
	case errors.Is(err, service.ErrTodoNotFound):
		httpx.WriteError(w, http.StatusNotFound, CodeNotFound, "todo not found")
	case errors.Is(err, service.ErrHolidayNotFound):
		httpx.WriteError(w, http.StatusNotFound, CodeNotFound, "holiday not found")
	default:
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "internal server error")
	}
}

// badField reports a query or body field that failed to parse.
func badField(field, msg string) error {
	return &service.ValidationError{Field: field, Message: msg}
}

// pathID reads the {id} segment. Something that is not a ULID names no row,
// so it gets notFound without a store lookup.
func pathID(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, notFound)
		return "", false
	}
	return id.String(), true
}
