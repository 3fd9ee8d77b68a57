package errx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a rich error carrying a stable code, a category and the HTTP
// status a transport layer should answer with.
type Error struct {
	// Code is the unique, registry-prefixed error code.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error.
	Type Type `json:"type"`

	// HTTPStatus is the HTTP status code to respond with.
	HTTPStatus int `json:"http_status"`

	// Details carries additional context. Server-side only detail goes
	// into the wrapped Err instead.
	Details map[string]interface{} `json:"details,omitempty"`

	// Err is the underlying cause, excluded from JSON.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail attaches a single detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause attaches an underlying cause and returns the error for chaining.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	type alias Error
	return json.Marshal(&struct {
		*alias
		Error string `json:"error,omitempty"`
	}{
		alias: (*alias)(e),
		Error: e.Error(),
	})
}

// New creates an unregistered Error of the given type.
func New(message string, errType Type) *Error {
	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: typeToHTTPStatus(errType),
	}
}

// Wrap wraps err with a message and a type. Returns nil for a nil err.
// An already-wrapped *Error keeps its code and status.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:       existing.Code,
			Message:    message,
			Type:       errType,
			HTTPStatus: existing.HTTPStatus,
			Details:    existing.Details,
			Err:        err,
		}
	}

	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: typeToHTTPStatus(errType),
		Err:        err,
	}
}

// Is reports whether err matches target, following wrap chains.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t Type) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

func typeToHTTPStatus(t Type) int {
	switch t {
	case TypeValidation:
		return 400
	case TypeAuthentication:
		return 401
	case TypeAuthorization:
		return 403
	case TypeNotFound:
		return 404
	case TypeConflict:
		return 409
	case TypeExternal:
		return 502
	default:
		return 500
	}
}
