package onboardapi

import "fmt"

// Error codes used in ErrorResponse.Error across the API.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeUnauthorized      = "unauthorized"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeLinkExpired       = "link_expired"
	ErrorCodeConflict          = "conflict"
	ErrorCodeRateLimited       = "rate_limit_exceeded"
	ErrorCodeServerError       = "server_error"
)

// APIError is an ErrorResponse decoded by the client, with the HTTP status
// attached. It implements the error interface.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("onboardapi: %d %s: %s", e.StatusCode, e.Code, e.Description)
}
