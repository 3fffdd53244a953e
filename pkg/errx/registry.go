package errx

import (
	"fmt"
	"sync"
)

type definition struct {
	t          Type
	httpStatus int
	message    string
}

// Registry holds the error codes owned by one domain
type Registry struct {
	prefix string

	mu   sync.RWMutex
	defs map[Code]definition
}

// NewRegistry creates a registry whose codes are prefixed with prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		defs:   make(map[Code]definition),
	}
}

// Register declares a code. Registering the same code twice panics, since
// codes are declared once at package initialization.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(r.prefix + "." + code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[full]; exists {
		panic(fmt.Sprintf("errx: code %s registered twice", full))
	}
	r.defs[full] = definition{t: t, httpStatus: httpStatus, message: message}
	return full
}

// New creates a fresh error for a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()

	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: statusForType(TypeInternal),
			Message:    "unregistered error code",
		}
	}

	return &Error{
		Code:       code,
		Type:       def.t,
		HTTPStatus: def.httpStatus,
		Message:    def.message,
	}
}
