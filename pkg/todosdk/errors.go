package todosdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/taskboard/pkg/httpx"
)

// Error codes carried in the envelope's error.code. The server writes them
// and the SDK surfaces them on APIError.
const (
	CodeValidation          = httpx.CodeValidation
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeNoRefreshToken      = "NO_REFRESH_TOKEN"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeNotFound            = "NOT_FOUND"
	CodeNoToken             = httpx.CodeNoToken
	CodeInvalidToken        = httpx.CodeInvalidToken
	CodeTokenExpired        = httpx.CodeTokenExpired
	CodeAuthError           = httpx.CodeAuthError
	CodeNoAuth              = httpx.CodeNoAuth
	CodeForbidden           = httpx.CodeForbidden
	CodeRateLimited         = httpx.CodeRateLimited
	CodeInternal            = httpx.CodeInternal
)

// APIError is a failed API call as reported by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
}

// ErrorCode returns the API error code carried by err, or "" if err is not
// an *APIError.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "UNEXPECTED_STATUS",
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       CodeInternal,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
