package errx

import (
	"fmt"
	"sync"
)

// ErrorCode is a registered error code with its fixed transport mapping.
type ErrorCode struct {
	Code       string
	Type       Type
	HTTPStatus int
	Message    string
}

// Registry manages the error codes of one module. Codes are registered at
// package init time; the HTTP status on the code wins over the type default,
// which lets a module answer 400 for a conflict or 401 for an upstream
// failure where its contract demands it.
type Registry struct {
	prefix string
	codes  map[string]*ErrorCode
	mu     sync.RWMutex
}

// NewRegistry creates an error registry whose codes carry the given prefix.
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[string]*ErrorCode),
	}
}

// Register records a new error code under the registry prefix.
func (r *Registry) Register(code string, errType Type, httpStatus int, message string) *ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	ec := &ErrorCode{
		Code:       fmt.Sprintf("%s_%s", r.prefix, code),
		Type:       errType,
		HTTPStatus: httpStatus,
		Message:    message,
	}
	r.codes[code] = ec
	return ec
}

// New instantiates an error from a registered code.
func (r *Registry) New(code *ErrorCode) *Error {
	return &Error{
		Code:       code.Code,
		Message:    code.Message,
		Type:       code.Type,
		HTTPStatus: code.HTTPStatus,
	}
}

// NewWithMessage instantiates an error from a registered code with a
// caller-supplied message.
func (r *Registry) NewWithMessage(code *ErrorCode, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}

// NewWithCause instantiates an error from a registered code wrapping an
// underlying cause.
func (r *Registry) NewWithCause(code *ErrorCode, cause error) *Error {
	e := r.New(code)
	e.Err = cause
	return e
}

// Get retrieves a registered code by its unprefixed name.
func (r *Registry) Get(code string) (*ErrorCode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ec, ok := r.codes[code]
	return ec, ok
}
