package gl

import "fmt"

// Error is a GL error code reported to the immediate caller.
type Error struct {
	Code Enum
}

const (
	InvalidEnum      Enum = 0x0500
	InvalidValue     Enum = 0x0501
	InvalidOperation Enum = 0x0502
	OutOfMemory      Enum = 0x0505
	ContextLost      Enum = 0x9242
)

var (
	ErrInvalidEnum      = &Error{Code: InvalidEnum}
	ErrInvalidValue     = &Error{Code: InvalidValue}
	ErrInvalidOperation = &Error{Code: InvalidOperation}
	ErrOutOfMemory      = &Error{Code: OutOfMemory}
	ErrContextLost      = &Error{Code: ContextLost}
)

func (e *Error) Error() string {
	switch e.Code {
	case InvalidEnum:
		return "gl: invalid enum"
	case InvalidValue:
		return "gl: invalid value"
	case InvalidOperation:
		return "gl: invalid operation"
	case OutOfMemory:
		return "gl: out of memory"
	case ContextLost:
		return "gl: context lost"
	}
	return fmt.Sprintf("gl: error 0x%04X", uint32(e.Code))
}

// Is matches errors by code so wrapped copies compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
