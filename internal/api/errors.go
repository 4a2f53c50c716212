package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/eflixapp/eflix-server/internal/errors"
)

// APIError implements huma.StatusError with a machine-readable code.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

func (e *APIError) Error() string { return e.Message }

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int { return e.status }

func (e *APIError) ContentType(_ string) string { return "application/json" }

// RegisterErrorHandler replaces huma's error constructor so domain errors
// keep their code, message, and status on the wire. Call once after
// creating the huma.API.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		// The store sentinels unwrap to coded errors too, so this single
		// branch covers not-found, unauthorized, and validation failures.
		for _, err := range errs {
			var derr *domainerrors.Error
			if errors.As(err, &derr) {
				return &APIError{
					status:  derr.HTTPStatus(),
					Code:    string(derr.Code),
					Message: derr.Message,
					Details: derr.Details,
				}
			}
		}

		return &APIError{status: status, Code: statusToCode(status), Message: message}
	}
}

func statusToCode(status int) string {
	switch status {
	case 400:
		return string(domainerrors.CodeValidation)
	case 401:
		return string(domainerrors.CodeUnauthorized)
	case 403:
		return string(domainerrors.CodeForbidden)
	case 404:
		return string(domainerrors.CodeNotFound)
	case 429, 502, 503, 504:
		return string(domainerrors.CodeUnavailable)
	default:
		return string(domainerrors.CodeInternal)
	}
}
