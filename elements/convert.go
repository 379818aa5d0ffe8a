package elements

// Convertible is the closed set of native types the generic conversion
// layer supports. Adding a type means extending this constraint and both
// dispatch switches below; anything outside the set is rejected at compile
// time.
type Convertible interface {
	bool | int32 | int64 | float64 | string | Object | Callable | Buffer | *Element | Value
}

// FromHandle converts a guest handle to the native type T using the
// engine's coercion rules. Primitive targets (bool, integers, float64,
// string) never fail. Wrapper targets fail with InvalidCast on a shape
// mismatch, except *Element which fails with InvalidElement and is
// additionally reported through the engine's error channel: the mismatch
// may surface deep inside a guest call, where guest code must observe a
// guest-visible failure even though the host call chain also unwinds.
func FromHandle[T Convertible](e *Engine, h Handle) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = e.truthy(h)
	case *int32:
		*p = e.coerceInt32(h)
	case *int64:
		*p = e.coerceInt64(h)
	case *float64:
		*p = e.coerceNumber(h)
	case *string:
		*p = e.coerceString(h)
	case *Object:
		obj, err := objectFromHandle(e, h, "FromHandle[Object]")
		if err != nil {
			return out, err
		}
		*p = obj
	case *Callable:
		c, err := callableFromHandle(e, h, "FromHandle[Callable]")
		if err != nil {
			return out, err
		}
		*p = c
	case *Buffer:
		b, err := bufferFromHandle(e, h, "FromHandle[Buffer]")
		if err != nil {
			return out, err
		}
		*p = b
	case **Element:
		el, err := elementFromHandle(e, h, "FromHandle[Element]")
		if err != nil {
			err = newError(CodeInvalidElement, "FromHandle[Element]", "given value is not an element")
			e.ReportError(err, h)
			return out, err
		}
		*p = el
	case *Value:
		sv := newScopedValue(e, h)
		*p = sv.ToValue()
	}
	return out, nil
}

// ToHandle converts a native value of type T to a guest handle in the
// current scope. Wrapper types reuse their existing handles; a Value is
// mirrored by tag and can fail with InvalidValueType.
func ToHandle[T Convertible](e *Engine, v T) (Handle, error) {
	switch val := any(v).(type) {
	case bool:
		return e.newBool(val), nil
	case int32:
		return e.newInt(int64(val)), nil
	case int64:
		return e.newInt(val), nil
	case float64:
		return e.newNumber(val), nil
	case string:
		return e.newString(val), nil
	case Object:
		return val.handle, nil
	case Callable:
		return val.handle, nil
	case Buffer:
		return val.handle, nil
	case *Element:
		if val == nil {
			return e.newUndefined(), nil
		}
		return e.RegisterElement(val), nil
	case Value:
		return handleFromValue(e, val)
	}
	panic("unreachable: Convertible is a closed set")
}
