package elements

// Object is a persistent wrapper around one guest object handle. Unlike a
// ScopedValue it stays valid across scopes. Equality is guest object
// identity, not structural comparison.
type Object struct {
	engine *Engine
	handle Handle
}

// Handle returns the wrapped handle.
func (o Object) Handle() Handle { return o.handle }

// Engine returns the owning engine.
func (o Object) Engine() *Engine { return o.engine }

// Equal reports whether both wrappers refer to the same guest object.
func (o Object) Equal(other Object) bool {
	if o.engine == nil || other.engine == nil {
		return o.engine == other.engine && o.handle == other.handle
	}
	return o.engine == other.engine && o.engine.deref(o.handle) == other.engine.deref(other.handle)
}

// Set stores v under name on the object.
func (o Object) Set(name string, v *ScopedValue) {
	g := o.engine.deref(o.handle)
	if g.props == nil {
		g.props = make(map[string]Handle)
	}
	g.props[name] = v.Handle()
}

// Get returns the property named name, or an undefined value if absent.
// Requires an open scope.
func (o Object) Get(name string) *ScopedValue {
	g := o.engine.deref(o.handle)
	if h, ok := g.props[name]; ok {
		return newScopedValue(o.engine, h)
	}
	return newScopedValue(o.engine, o.engine.newUndefined())
}

// Has reports whether the object has a property named name.
func (o Object) Has(name string) bool {
	g := o.engine.deref(o.handle)
	_, ok := g.props[name]
	return ok
}

// Callable is a persistent wrapper around one guest function handle.
type Callable struct {
	engine *Engine
	handle Handle
}

// Handle returns the wrapped handle.
func (c Callable) Handle() Handle { return c.handle }

// Equal reports whether both wrappers refer to the same guest function.
func (c Callable) Equal(other Callable) bool {
	if c.engine == nil || other.engine == nil {
		return c.engine == other.engine && c.handle == other.handle
	}
	return c.engine == other.engine && c.engine.deref(c.handle) == other.engine.deref(other.handle)
}

// Call invokes the guest function with the given arguments. Requires an
// open scope; the result lives in the current scope.
func (c Callable) Call(args ...*ScopedValue) (*ScopedValue, error) {
	g := c.engine.deref(c.handle)
	handles := make([]Handle, len(args))
	for i, a := range args {
		handles[i] = a.Handle()
	}
	rh, err := g.fn(c.engine, handles)
	if err != nil {
		return nil, err
	}
	if rh == 0 {
		rh = c.engine.newUndefined()
	}
	return newScopedValue(c.engine, rh), nil
}

// Buffer is a persistent wrapper around one guest binary-buffer handle.
type Buffer struct {
	engine *Engine
	handle Handle
}

// Handle returns the wrapped handle.
func (b Buffer) Handle() Handle { return b.handle }

// Bytes returns the buffer contents. The slice aliases guest memory; do not
// hold it past the engine's lifetime.
func (b Buffer) Bytes() []byte {
	return b.engine.deref(b.handle).buf
}

// Len returns the buffer size in bytes.
func (b Buffer) Len() int {
	return len(b.engine.deref(b.handle).buf)
}

// Equal reports whether both wrappers refer to the same guest buffer.
func (b Buffer) Equal(other Buffer) bool {
	if b.engine == nil || other.engine == nil {
		return b.engine == other.engine && b.handle == other.handle
	}
	return b.engine == other.engine && b.engine.deref(b.handle) == other.engine.deref(other.handle)
}
