package elements

// handleRecord is the shared box behind a ScopedValue family: one handle
// plus a plain (single-threaded) reference count, in a single allocation.
type handleRecord struct {
	engine *Engine
	handle Handle
	refs   int
}

// ScopedValue is a transient, reference-counted wrapper around exactly one
// guest handle. It is valid only while the engine scope that produced its
// handle is alive and must never outlive it.
//
// Share a ScopedValue with Clone, not by copying the struct; Release frees
// the shared record when the last reference drops.
type ScopedValue struct {
	rec *handleRecord
}

func newScopedValue(e *Engine, h Handle) *ScopedValue {
	return &ScopedValue{rec: &handleRecord{engine: e, handle: h, refs: 1}}
}

// NewScoped allocates an undefined handle in the current scope.
func NewScoped(e *Engine) *ScopedValue {
	return newScopedValue(e, e.newUndefined())
}

// ScopedBool allocates a fresh boolean handle.
func ScopedBool(e *Engine, v bool) *ScopedValue {
	return newScopedValue(e, e.newBool(v))
}

// ScopedInt32 allocates a fresh integer handle.
func ScopedInt32(e *Engine, v int32) *ScopedValue {
	return newScopedValue(e, e.newInt(int64(v)))
}

// ScopedInt64 allocates a fresh integer handle.
func ScopedInt64(e *Engine, v int64) *ScopedValue {
	return newScopedValue(e, e.newInt(v))
}

// ScopedNumber allocates a fresh number handle.
func ScopedNumber(e *Engine, v float64) *ScopedValue {
	return newScopedValue(e, e.newNumber(v))
}

// ScopedString allocates a fresh string handle.
func ScopedString(e *Engine, v string) *ScopedValue {
	return newScopedValue(e, e.newString(v))
}

// ScopedFromObject wraps the object's existing handle; no allocation.
func ScopedFromObject(e *Engine, v Object) *ScopedValue {
	return newScopedValue(e, v.handle)
}

// ScopedFromCallable wraps the callable's existing handle; no allocation.
func ScopedFromCallable(e *Engine, v Callable) *ScopedValue {
	return newScopedValue(e, v.handle)
}

// ScopedFromBuffer allocates a fresh guest buffer sized and copied from the
// buffer's bytes.
func ScopedFromBuffer(e *Engine, v Buffer) *ScopedValue {
	return newScopedValue(e, e.newBufferHandle(v.Bytes()))
}

// ScopedFromElement looks up the handle associated with el through the
// engine's element registry, registering it on first use. A nil element
// yields an undefined handle.
func ScopedFromElement(e *Engine, el *Element) *ScopedValue {
	if el == nil {
		return newScopedValue(e, e.newUndefined())
	}
	return newScopedValue(e, e.RegisterElement(el))
}

// ScopedFromValue mirrors a persistent Value into the matching guest
// representation. An unrecognized tag fails with InvalidValueType.
func ScopedFromValue(e *Engine, v Value) (*ScopedValue, error) {
	h, err := handleFromValue(e, v)
	if err != nil {
		return nil, err
	}
	return newScopedValue(e, h), nil
}

func handleFromValue(e *Engine, v Value) (Handle, error) {
	switch v.stored {
	case StoredNull:
		return e.newUndefined(), nil
	case StoredBoolean:
		return e.newBool(v.integer != 0), nil
	case StoredInteger:
		return e.newInt(v.integer), nil
	case StoredDouble:
		return e.newNumber(v.number), nil
	case StoredObject:
		return v.object.handle, nil
	case StoredCallable:
		return v.callable.handle, nil
	case StoredElement:
		return e.RegisterElement(v.element), nil
	default:
		return 0, newError(CodeInvalidValueType, "ScopedFromValue", "invalid value tag %d", int(v.stored))
	}
}

func (s *ScopedValue) record() *handleRecord {
	if s.rec == nil || s.rec.refs <= 0 {
		panic("elements: use of released ScopedValue")
	}
	return s.rec
}

// Handle returns the wrapped guest handle.
func (s *ScopedValue) Handle() Handle {
	return s.record().handle
}

// Engine returns the owning engine.
func (s *ScopedValue) Engine() *Engine {
	return s.record().engine
}

// Clone returns a new reference sharing this value's handle record.
func (s *ScopedValue) Clone() *ScopedValue {
	rec := s.record()
	rec.refs++
	return &ScopedValue{rec: rec}
}

// Release drops this reference. When the last reference drops, the shared
// record is freed and a scope-allocated handle is returned to its scope.
// Releasing an already released value is a contract violation and panics.
func (s *ScopedValue) Release() {
	rec := s.record()
	rec.refs--
	if rec.refs == 0 {
		rec.engine.release(rec.handle)
	}
}

// Same reports whether both values share one handle record. This is record
// identity, not value equality: two independently built handles holding the
// same number compare unequal.
func (s *ScopedValue) Same(other *ScopedValue) bool {
	return other != nil && s.record() == other.record()
}

// Shape predicates.

func (s *ScopedValue) shape() shape {
	rec := s.record()
	return rec.engine.deref(rec.handle).shape
}

// IsNull reports a null or undefined handle.
func (s *ScopedValue) IsNull() bool {
	sh := s.shape()
	return sh == shapeNull || sh == shapeUndefined
}

// IsBool reports a boolean handle.
func (s *ScopedValue) IsBool() bool { return s.shape() == shapeBool }

// IsInt reports an integer handle.
func (s *ScopedValue) IsInt() bool { return s.shape() == shapeInt }

// IsNumber reports a numeric handle; integers are numbers.
func (s *ScopedValue) IsNumber() bool {
	sh := s.shape()
	return sh == shapeInt || sh == shapeNumber
}

// IsString reports a string or boxed-string handle.
func (s *ScopedValue) IsString() bool {
	sh := s.shape()
	return sh == shapeString || sh == shapeStringObject
}

// IsCallable reports a function handle.
func (s *ScopedValue) IsCallable() bool { return s.shape() == shapeFunction }

// IsBuffer reports a binary-buffer handle.
func (s *ScopedValue) IsBuffer() bool { return s.shape() == shapeBuffer }

// IsObject reports any object-shaped handle (plain objects, element
// wrappers, arrays, boxed strings, functions, buffers).
func (s *ScopedValue) IsObject() bool {
	switch s.shape() {
	case shapeObject, shapeArray, shapeStringObject, shapeFunction, shapeBuffer:
		return true
	}
	return false
}

// IsArray reports an array handle.
func (s *ScopedValue) IsArray() bool { return s.shape() == shapeArray }

// IsElement reports an object-shaped handle carrying exactly one marker
// slot, i.e. a host-wrapped element. False for arrays, plain objects,
// functions and strings.
func (s *ScopedValue) IsElement() bool {
	rec := s.record()
	g := rec.engine.deref(rec.handle)
	return g.shape == shapeObject && g.hasMarker()
}

// Conversions. All coercions follow the engine's rules.

// ToBool converts through engine truthiness. It never fails, even for
// objects and elements; boolean coercion is deliberately the one unchecked
// conversion.
func (s *ScopedValue) ToBool() bool {
	rec := s.record()
	return rec.engine.truthy(rec.handle)
}

// ToInt32 converts through engine numeric coercion, narrowed to 32 bits.
func (s *ScopedValue) ToInt32() int32 {
	rec := s.record()
	return rec.engine.coerceInt32(rec.handle)
}

// ToInt64 converts through engine numeric coercion.
func (s *ScopedValue) ToInt64() int64 {
	rec := s.record()
	return rec.engine.coerceInt64(rec.handle)
}

// ToNumber converts through engine numeric coercion.
func (s *ScopedValue) ToNumber() float64 {
	rec := s.record()
	return rec.engine.coerceNumber(rec.handle)
}

// ToString converts through engine string coercion.
func (s *ScopedValue) ToString() string {
	rec := s.record()
	return rec.engine.coerceString(rec.handle)
}

// ToCallable returns a persistent Callable wrapper for a function handle.
func (s *ScopedValue) ToCallable() (Callable, error) {
	rec := s.record()
	return callableFromHandle(rec.engine, rec.handle, "ScopedValue.ToCallable")
}

// ToBuffer returns a persistent Buffer wrapper for a buffer handle.
func (s *ScopedValue) ToBuffer() (Buffer, error) {
	rec := s.record()
	return bufferFromHandle(rec.engine, rec.handle, "ScopedValue.ToBuffer")
}

// ToObject returns a persistent Object wrapper. A string handle that is not
// yet object-shaped is boxed into a string object first. An element-shaped
// handle fails with TypeMismatch: the caller almost certainly wanted
// ToElement.
func (s *ScopedValue) ToObject() (Object, error) {
	rec := s.record()
	return objectFromHandle(rec.engine, rec.handle, "ScopedValue.ToObject")
}

// ToElement unwraps the host element recorded in the handle's marker slot.
// A null or undefined handle yields nil; a handle without a marker slot
// fails with InvalidCast.
func (s *ScopedValue) ToElement() (*Element, error) {
	rec := s.record()
	return elementFromHandle(rec.engine, rec.handle, "ScopedValue.ToElement")
}

// ToValue detects the handle's shape and produces the best-matching
// persistent Value. Unmatched shapes yield the null value.
func (s *ScopedValue) ToValue() Value {
	switch {
	case s.IsBool():
		return BoolValue(s.ToBool())
	case s.IsInt():
		return Int64Value(s.ToInt64())
	case s.IsNumber():
		return NumberValue(s.ToNumber())
	case s.IsString():
		obj, err := s.ToObject()
		if err != nil {
			return NewValue()
		}
		return ObjectValue(obj)
	case s.IsElement():
		el, err := s.ToElement()
		if err != nil {
			return NewValue()
		}
		return ElementValue(el)
	case s.IsCallable():
		c, err := s.ToCallable()
		if err != nil {
			return NewValue()
		}
		return CallableValue(c)
	case s.IsObject():
		obj, err := s.ToObject()
		if err != nil {
			return NewValue()
		}
		return ObjectValue(obj)
	}
	return NewValue()
}

// Shared handle→wrapper helpers, used by both ScopedValue and the generic
// conversion layer.

func objectFromHandle(e *Engine, h Handle, op string) (Object, error) {
	g := e.deref(h)
	if g.shape == shapeString {
		boxed := &guestValue{shape: shapeStringObject, s: g.s}
		return Object{engine: e, handle: e.persist(boxed)}, nil
	}
	if g.shape == shapeObject && g.hasMarker() {
		return Object{}, newError(CodeTypeMismatch, op, "converting object of Element type to Object")
	}
	switch g.shape {
	case shapeObject, shapeArray, shapeStringObject, shapeFunction, shapeBuffer:
		return Object{engine: e, handle: e.persistShared(h, g)}, nil
	default:
		return Object{}, newError(CodeInvalidCast, op, "handle is not object-shaped")
	}
}

func callableFromHandle(e *Engine, h Handle, op string) (Callable, error) {
	g := e.deref(h)
	if g.shape != shapeFunction {
		return Callable{}, newError(CodeInvalidCast, op, "handle is not function-shaped")
	}
	return Callable{engine: e, handle: e.persistShared(h, g)}, nil
}

func bufferFromHandle(e *Engine, h Handle, op string) (Buffer, error) {
	g := e.deref(h)
	if g.shape != shapeBuffer {
		return Buffer{}, newError(CodeInvalidCast, op, "handle is not buffer-shaped")
	}
	return Buffer{engine: e, handle: e.persistShared(h, g)}, nil
}

func elementFromHandle(e *Engine, h Handle, op string) (*Element, error) {
	g := e.deref(h)
	if g.shape == shapeNull || g.shape == shapeUndefined {
		return nil, nil
	}
	if g.shape != shapeObject || !g.hasMarker() {
		return nil, newError(CodeInvalidCast, op, "handle has no element marker slot")
	}
	el := e.elementByID(g.marker)
	if el == nil {
		return nil, newError(CodeInvalidCast, op, "element marker is not registered")
	}
	return el, nil
}
