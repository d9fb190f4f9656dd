package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrEmailInvalid is returned when an email fails the syntactic check.
	ErrEmailInvalid = errors.New("invalid email format")
	// ErrEmailUnreachable is returned when the email domain has no MX records.
	ErrEmailUnreachable = errors.New("email domain is unreachable")
	// ErrAccountExists is returned when the email is already registered.
	ErrAccountExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned on login failure. Wrong password and
	// unknown email are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified is returned when an unverified appealer tries to act.
	ErrNotVerified = errors.New("user not verified")
	// ErrForbidden is returned when a valid identity lacks the required scope.
	ErrForbidden = errors.New("access denied: insufficient permissions")
	// ErrUserNotFound is returned when a referenced account is absent.
	ErrUserNotFound = errors.New("user not found")
	// ErrRequestNotFound is returned when a referenced solar request is absent.
	ErrRequestNotFound = errors.New("request not found")
)

// ValidationError reports missing or malformed input fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// NewValidation builds a ValidationError naming the offending fields.
func NewValidation(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HTTPError pairs a status code with the response body.
type HTTPError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Details: e.Details}
}

// MapErrorToHTTP maps domain errors to HTTP errors. The mapping is the single
// place where error kinds become status codes; handlers never pick codes
// per-endpoint. Unknown errors collapse to a generic 500 so dependency
// failures cannot leak internals to callers.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: ve.Error()}
	}

	switch {
	case errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrEmailUnreachable),
		errors.Is(err, ErrAccountExists):
		// Duplicate email stays a 400, matching the established contract
		// rather than 409.
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, ErrInvalidCredentials):
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, ErrNotVerified), errors.Is(err, ErrForbidden):
		return &HTTPError{StatusCode: http.StatusForbidden, Message: err.Error()}
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: err.Error()}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
	}
}
