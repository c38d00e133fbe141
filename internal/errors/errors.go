package errors

import "fmt"

// ErrorCode represents a Pressroom error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotAuthenticated  ErrorCode = "NOT_AUTHENTICATED"  // 401
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrBadAIOutput       ErrorCode = "BAD_AI_OUTPUT"      // 422
	ErrQuotaExhausted    ErrorCode = "QUOTA_EXHAUSTED"    // 429
	ErrRemoteUnavailable ErrorCode = "REMOTE_UNAVAILABLE" // 502
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// Reasons attached to BAD_AI_OUTPUT errors via Details["reason"].
const (
	ReasonEmptyPayload  = "empty_payload"
	ReasonInvalidJSON   = "invalid_json"
	ReasonNotObject     = "not_object"
	ReasonUnknownFormat = "unknown_format"
)

// PressError represents a structured error with code, status, and details.
type PressError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *PressError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *PressError {
	return &PressError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotAuthenticated creates a 401 error for a missing or expired session.
func NewNotAuthenticated(msg string) *PressError {
	if msg == "" {
		msg = "not authenticated; run 'pressroom login'"
	}
	return &PressError{
		Code:    ErrNotAuthenticated,
		Status:  401,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an entity cannot be found.
func NewNotFound(identifier string) *PressError {
	return &PressError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("item not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewBadAIOutput creates a 422 error for model output that failed validation.
// The reason is one of the Reason* constants so callers can branch on the
// failure mode without string matching.
func NewBadAIOutput(reason, msg string) *PressError {
	return &PressError{
		Code:    ErrBadAIOutput,
		Status:  422,
		Message: msg,
		Details: map[string]any{"reason": reason},
	}
}

// NewQuotaExhausted creates a 429 error carrying a human-readable wait hint.
func NewQuotaExhausted(hint string) *PressError {
	if hint == "" {
		hint = "provider quota exhausted; please wait before retrying"
	}
	return &PressError{
		Code:    ErrQuotaExhausted,
		Status:  429,
		Message: hint,
	}
}

// NewRemoteUnavailable creates a 502 error after the retry budget for a
// remote call is exhausted. The last observed HTTP status (0 for pure
// network errors) is kept in Details.
func NewRemoteUnavailable(lastStatus int, err error) *PressError {
	msg := "could not reach remote service"
	if err != nil {
		msg = fmt.Sprintf("could not reach remote service: %v", err)
	}
	return &PressError{
		Code:    ErrRemoteUnavailable,
		Status:  502,
		Message: msg,
		Details: map[string]any{"last_status": lastStatus},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PressError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PressError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a PressError with the given code.
func Is(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PressError); ok {
		return pErr.Code == code
	}
	return false
}

// Reason extracts the BAD_AI_OUTPUT reason from an error, or "".
func Reason(err error) string {
	if pErr, ok := err.(*PressError); ok {
		if r, ok := pErr.Details["reason"].(string); ok {
			return r
		}
	}
	return ""
}
