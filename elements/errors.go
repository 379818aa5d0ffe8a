package elements

import "fmt"

// Code classifies a bridge error.
type Code int

const (
	// CodeTypeMismatch reports a wrong-tag accessor call on a Value, or an
	// object/element confusion in ScopedValue.ToObject.
	CodeTypeMismatch Code = iota + 1
	// CodeInvalidValueType reports an unrecognized tag while mirroring a
	// Value into the engine.
	CodeInvalidValueType
	// CodeInvalidCast reports a handle whose runtime shape does not match
	// the requested native shape.
	CodeInvalidCast
	// CodeInvalidElement reports a generic boundary conversion of a
	// non-element handle to *Element.
	CodeInvalidElement
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case CodeTypeMismatch:
		return "TypeMismatch"
	case CodeInvalidValueType:
		return "InvalidValueType"
	case CodeInvalidCast:
		return "InvalidCast"
	case CodeInvalidElement:
		return "InvalidElement"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by all bridge operations. Op identifies
// the failing operation (e.g. "Value.AsInt32").
type Error struct {
	Code Code
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Msg)
}

func newError(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is a bridge *Error carrying the given code.
func IsCode(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
