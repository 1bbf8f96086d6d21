package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/store"
)

// APIError is the error body for every failed request. It implements
// huma.StatusError so handlers can return domain errors directly.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status     int
	ErrorCode  string `json:"error" doc:"Machine-readable error code"`
	Message    string `json:"message" doc:"Human-readable error message"`
	StatusCode int    `json:"statusCode" doc:"HTTP status code"`
	RequestID  string `json:"requestId,omitempty" doc:"Request correlation id"`
	Details    any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to render domain errors in the
// response envelope. Call after creating the huma.API but before
// registering routes.
func RegisterErrorHandler() {
	// Covers huma.Error4xx helpers, which build errors without a context.
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		return buildAPIError("", status, message, errs)
	}
	huma.NewErrorWithContext = func(ctx huma.Context, status int, message string, errs ...error) huma.StatusError {
		requestID := ""
		if ctx != nil {
			requestID = middleware.GetReqID(ctx.Context())
		}
		return buildAPIError(requestID, status, message, errs)
	}
}

func buildAPIError(requestID string, status int, message string, errs []error) *APIError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:     domainErr.HTTPStatus(),
				ErrorCode:  string(domainErr.Code),
				Message:    domainErr.Message,
				StatusCode: domainErr.HTTPStatus(),
				RequestID:  requestID,
				Details:    domainErr.Details,
			}
		}

		// A request that ran out its deadline is a 504, whatever layer the
		// cancellation bubbled up through.
		if errors.Is(err, context.DeadlineExceeded) {
			return &APIError{
				status:     504,
				ErrorCode:  string(domainerrors.CodeTimeout),
				Message:    "request timed out",
				StatusCode: 504,
				RequestID:  requestID,
			}
		}

		// Bare store errors that escaped the service layer.
		if errors.Is(err, store.ErrNotFound) {
			return &APIError{
				status:     404,
				ErrorCode:  string(domainerrors.CodeNotFound),
				Message:    err.Error(),
				StatusCode: 404,
				RequestID:  requestID,
			}
		}
	}

	// Validation details huma collected (body parse, schema errors).
	var details []string
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}

	apiErr := &APIError{
		status:     status,
		ErrorCode:  statusToCode(status),
		Message:    message,
		StatusCode: status,
		RequestID:  requestID,
	}
	if len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

// statusToCode maps HTTP status codes to domain error codes.
func statusToCode(status int) string {
	switch status {
	case 400, 422:
		return string(domainerrors.CodeValidation)
	case 401:
		return string(domainerrors.CodeUnauthorized)
	case 403:
		return string(domainerrors.CodeForbidden)
	case 404:
		return string(domainerrors.CodeNotFound)
	case 409:
		return string(domainerrors.CodeConflict)
	case 413:
		return string(domainerrors.CodePayloadTooLarge)
	case 429:
		return string(domainerrors.CodeRateLimited)
	case 503:
		return string(domainerrors.CodeUnavailable)
	case 504:
		return string(domainerrors.CodeTimeout)
	default:
		return string(domainerrors.CodeInternal)
	}
}
