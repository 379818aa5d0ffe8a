package elements

// Stored is the discriminant selecting the active payload of a Value.
type Stored int

const (
	// StoredNull is the "no value" case. It is the only tag that may be
	// null: a Value built from a nil element carries it, and no other tag
	// ever holds a null payload.
	StoredNull Stored = iota
	// StoredBoolean holds a bool.
	StoredBoolean
	// StoredInteger holds a 64-bit integer.
	StoredInteger
	// StoredDouble holds a float64.
	StoredDouble
	// StoredObject holds an Object wrapper.
	StoredObject
	// StoredCallable holds a Callable wrapper.
	StoredCallable
	// StoredElement holds a non-owning element pointer, never nil.
	StoredElement
)

// String returns the tag name.
func (s Stored) String() string {
	switch s {
	case StoredNull:
		return "Null"
	case StoredBoolean:
		return "Boolean"
	case StoredInteger:
		return "Integer"
	case StoredDouble:
		return "Double"
	case StoredObject:
		return "Object"
	case StoredCallable:
		return "Callable"
	case StoredElement:
		return "Element"
	default:
		return "Invalid"
	}
}

// Value is a persistent tagged union over booleans, integers, doubles,
// objects, callables and elements. Unlike a ScopedValue it owns no
// scope-bound state and is freely portable across scopes; dereferencing an
// Object or Callable payload still requires re-entering the owning engine
// on its goroutine.
//
// Values are plain Go values. Copies share the (immutable) wrapper payloads
// and stay valid independently of each other.
type Value struct {
	stored   Stored
	integer  int64
	number   float64
	object   *Object
	callable *Callable
	element  *Element
}

// NewValue returns the null value.
func NewValue() Value {
	return Value{stored: StoredNull}
}

// BoolValue returns a Boolean-tagged value.
func BoolValue(v bool) Value {
	var i int64
	if v {
		i = 1
	}
	return Value{stored: StoredBoolean, integer: i}
}

// Int32Value returns an Integer-tagged value.
func Int32Value(v int32) Value {
	return Value{stored: StoredInteger, integer: int64(v)}
}

// Int64Value returns an Integer-tagged value.
func Int64Value(v int64) Value {
	return Value{stored: StoredInteger, integer: v}
}

// NumberValue returns a Double-tagged value.
func NumberValue(v float64) Value {
	return Value{stored: StoredDouble, number: v}
}

// ObjectValue returns an Object-tagged value holding its own copy of the
// wrapper.
func ObjectValue(v Object) Value {
	o := v
	return Value{stored: StoredObject, object: &o}
}

// CallableValue returns a Callable-tagged value holding its own copy of the
// wrapper.
func CallableValue(v Callable) Value {
	c := v
	return Value{stored: StoredCallable, callable: &c}
}

// ElementValue returns an Element-tagged value, or the null value when el
// is nil ("no element").
func ElementValue(el *Element) Value {
	if el == nil {
		return Value{stored: StoredNull}
	}
	return Value{stored: StoredElement, element: el}
}

// Type returns the active tag.
func (v Value) Type() Stored {
	return v.stored
}

// IsNull reports whether this is the null value. Only the null/element
// family can be null; no other tag ever is.
func (v Value) IsNull() bool {
	return v.stored == StoredNull
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, error) {
	if v.stored != StoredBoolean {
		return false, newError(CodeTypeMismatch, "Value.AsBool", "can't cast %s value into Boolean", v.stored)
	}
	return v.integer != 0, nil
}

// AsInt32 returns the integer payload narrowed to 32 bits.
func (v Value) AsInt32() (int32, error) {
	if v.stored != StoredInteger {
		return 0, newError(CodeTypeMismatch, "Value.AsInt32", "can't cast %s value into Int32", v.stored)
	}
	return int32(v.integer), nil
}

// AsInt64 returns the integer payload.
func (v Value) AsInt64() (int64, error) {
	if v.stored != StoredInteger {
		return 0, newError(CodeTypeMismatch, "Value.AsInt64", "can't cast %s value into Int64", v.stored)
	}
	return v.integer, nil
}

// AsNumber returns the double payload. An Integer-tagged value widens.
func (v Value) AsNumber() (float64, error) {
	switch v.stored {
	case StoredDouble:
		return v.number, nil
	case StoredInteger:
		return float64(v.integer), nil
	default:
		return 0, newError(CodeTypeMismatch, "Value.AsNumber", "can't cast %s value into Number", v.stored)
	}
}

// AsObject returns the object payload.
func (v Value) AsObject() (Object, error) {
	if v.stored != StoredObject {
		return Object{}, newError(CodeTypeMismatch, "Value.AsObject", "can't cast %s value into Object", v.stored)
	}
	return *v.object, nil
}

// AsCallable returns the callable payload.
func (v Value) AsCallable() (Callable, error) {
	if v.stored != StoredCallable {
		return Callable{}, newError(CodeTypeMismatch, "Value.AsCallable", "can't cast %s value into Callable", v.stored)
	}
	return *v.callable, nil
}

// AsElement returns the element payload. The null value yields nil.
func (v Value) AsElement() (*Element, error) {
	switch v.stored {
	case StoredElement:
		return v.element, nil
	case StoredNull:
		return nil, nil
	default:
		return nil, newError(CodeTypeMismatch, "Value.AsElement", "can't cast %s value into Element", v.stored)
	}
}

// Equal reports value equality: equal tags, then per-tag payload
// comparison. Object and Callable delegate to wrapper identity; elements
// compare by pointer.
func (v Value) Equal(other Value) bool {
	if v.stored != other.stored {
		return false
	}
	switch v.stored {
	case StoredNull:
		return true
	case StoredBoolean, StoredInteger:
		return v.integer == other.integer
	case StoredDouble:
		return v.number == other.number
	case StoredObject:
		return v.object.Equal(*other.object)
	case StoredCallable:
		return v.callable.Equal(*other.callable)
	case StoredElement:
		return v.element == other.element
	}
	return false
}
