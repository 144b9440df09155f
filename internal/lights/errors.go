package lights

import "fmt"

// Error codes
const (
	ErrCodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
)

// ErrUnsupportedOperation matches any unsupported-operation error via errors.Is.
var ErrUnsupportedOperation = &Error{Code: ErrCodeUnsupportedOperation, Message: "unsupported operation"}

// Error represents a light request failure visible to the caller
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

// Is matches errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new light error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
