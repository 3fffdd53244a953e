// Package errx provides typed, code-carrying errors that map cleanly to HTTP
// responses. Each domain package declares its own Registry and exposes small
// constructor helpers for the codes it owns.
package errx

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// Type classifies an error independently of the domain that raised it
type Type string

const (
	TypeValidation Type = "VALIDATION"
	TypeNotFound   Type = "NOT_FOUND"
	TypeConflict   Type = "CONFLICT"
	TypeInternal   Type = "INTERNAL"
	TypeExternal   Type = "EXTERNAL"
)

// Code is a fully qualified error code, e.g. "APPLICATION.NOT_FOUND"
type Code string

func (c Code) String() string { return string(c) }

// Error is the error value carried across layers
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"-"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail adds a single detail entry and returns the same error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the given map into the error details
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// WithCause attaches an underlying error
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// HTTPResponse is the JSON body written for an *Error
type HTTPResponse struct {
	Type    Type           `json:"type"`
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToHTTPResponse converts the error into its wire representation
func (e *Error) ToHTTPResponse() HTTPResponse {
	return HTTPResponse{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// Wrap annotates err with a message and type. An *Error that is already typed
// keeps its code and status so that callers further up still see the
// original classification.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:       existing.Code,
			Type:       existing.Type,
			HTTPStatus: existing.HTTPStatus,
			Message:    message,
			Details:    maps.Clone(existing.Details),
			Cause:      err,
		}
	}
	return &Error{
		Code:       Code(t),
		Type:       t,
		HTTPStatus: statusForType(t),
		Message:    message,
		Cause:      err,
	}
}

// As extracts the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err carries the given type
func IsType(err error, t Type) bool {
	e, ok := As(err)
	return ok && e.Type == t
}

// HasCode reports whether err carries the given code
func HasCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// HTTPStatusOf returns the status to answer with for err
func HTTPStatusOf(err error) int {
	if e, ok := As(err); ok && e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return http.StatusInternalServerError
}

func statusForType(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
