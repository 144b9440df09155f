package device

import "fmt"

// Error codes for profile resolution.
const (
	ErrCodeProfileNotFound = "PROFILE_NOT_FOUND"
	ErrCodeInvalidProfile  = "INVALID_PROFILE"
	ErrCodeParseFailed     = "PARSE_FAILED"
)

// Error is a profile resolution error with a code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new profile error.
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
