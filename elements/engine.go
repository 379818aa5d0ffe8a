package elements

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/anoobzg/livekeys/logging"
)

// Handle is an opaque reference to a guest-engine-resident value.
// Scope-allocated handles have the high bit set; persistent handles do not.
type Handle uint64

const scopedBit Handle = 1 << 63

// shape describes the runtime shape of a guest value.
type shape int

const (
	shapeUndefined shape = iota
	shapeNull
	shapeBool
	shapeInt
	shapeNumber
	shapeString
	shapeStringObject
	shapeObject
	shapeArray
	shapeFunction
	shapeBuffer
)

// guestValue is the engine-resident representation behind a Handle.
// Exactly one payload field is meaningful, selected by shape. Objects
// created through the element registry carry the element's identity in
// marker, their single internal slot; plain guest objects never do.
type guestValue struct {
	shape  shape
	b      bool
	i      int64
	n      float64
	s      string
	props  map[string]Handle
	items  []Handle
	fn     GuestFunc
	buf    []byte
	marker uuid.UUID
}

func (g *guestValue) hasMarker() bool { return g.marker != uuid.Nil }

// GuestFunc is the signature of a host function exposed to the guest as a
// callable handle.
type GuestFunc func(e *Engine, args []Handle) (Handle, error)

// GuestError is an error delivered through the engine's error-reporting
// channel. Handle refers to the guest value involved, if any.
type GuestError struct {
	Err    error
	Handle Handle
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(log logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithErrorHandler installs a callback invoked for every error reported
// through ReportError, in addition to the GuestErrors accumulator.
func WithErrorHandler(fn func(GuestError)) Option {
	return func(e *Engine) { e.errHandler = fn }
}

// Engine is the embedded guest runtime collaborator. It owns all handle
// storage (a persistent arena plus one arena per open scope), manufactures
// handles for literals, supplies the coercion primitives used by the
// conversion layer, keeps the identity-keyed element registry, and carries
// the guest-visible error channel.
//
// An Engine is not safe for concurrent use; all handles are valid only on
// the goroutine driving the engine.
type Engine struct {
	persistent map[Handle]*guestValue
	scoped     map[Handle]*guestValue
	nextID     Handle
	nextScoped Handle
	scopes     []*Scope

	elements       map[uuid.UUID]*Element
	elementHandles map[uuid.UUID]Handle

	guestErrors []GuestError
	errHandler  func(GuestError)
	log         logging.Logger
}

// New creates an engine with no open scope.
func New(opts ...Option) *Engine {
	e := &Engine{
		persistent:     make(map[Handle]*guestValue),
		scoped:         make(map[Handle]*guestValue),
		nextID:         1,
		nextScoped:     scopedBit | 1,
		elements:       make(map[uuid.UUID]*Element),
		elementHandles: make(map[uuid.UUID]Handle),
		log:            logging.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scope is an engine-managed validity region. Handles allocated inside it
// are released when it closes and must not be used afterwards.
type Scope struct {
	engine  *Engine
	handles []Handle
	closed  bool
}

// OpenScope pushes a new scope. Every ScopedValue construction requires an
// open scope.
func (e *Engine) OpenScope() *Scope {
	s := &Scope{engine: e}
	e.scopes = append(e.scopes, s)
	e.log.Debug("scope opened", "depth", len(e.scopes))
	return s
}

// Close releases every handle the scope allocated and pops it. Closing an
// already closed scope is a no-op.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	e := s.engine
	for _, h := range s.handles {
		delete(e.scoped, h)
	}
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if e.scopes[i] == s {
			e.scopes = append(e.scopes[:i], e.scopes[i+1:]...)
			break
		}
	}
	e.log.Debug("scope closed", "released", len(s.handles), "depth", len(e.scopes))
}

func (e *Engine) currentScope() *Scope {
	if len(e.scopes) == 0 {
		panic("elements: no open engine scope")
	}
	return e.scopes[len(e.scopes)-1]
}

// newScoped allocates a handle in the current scope.
func (e *Engine) newScoped(g *guestValue) Handle {
	s := e.currentScope()
	h := e.nextScoped
	e.nextScoped++
	e.scoped[h] = g
	s.handles = append(s.handles, h)
	return h
}

// persist stores g in the persistent arena and returns its handle.
func (e *Engine) persist(g *guestValue) Handle {
	h := e.nextID
	e.nextID++
	e.persistent[h] = g
	return h
}

// persistShared returns h unchanged when it is already persistent, or a new
// persistent handle referencing the same guest value when h is
// scope-allocated. Identity is preserved either way.
func (e *Engine) persistShared(h Handle, g *guestValue) Handle {
	if h&scopedBit == 0 {
		return h
	}
	return e.persist(g)
}

// deref resolves a handle. Dereferencing a released or foreign handle is a
// programming error and panics.
func (e *Engine) deref(h Handle) *guestValue {
	if h&scopedBit != 0 {
		if g, ok := e.scoped[h]; ok {
			return g
		}
		panic(fmt.Sprintf("elements: use of released scope handle %#x", uint64(h)))
	}
	if g, ok := e.persistent[h]; ok {
		return g
	}
	panic(fmt.Sprintf("elements: use of unknown handle %#x", uint64(h)))
}

// release frees a scope-allocated handle early. Persistent handles are
// untouched; the scope's own bookkeeping tolerates the double delete.
func (e *Engine) release(h Handle) {
	if h&scopedBit != 0 {
		delete(e.scoped, h)
	}
}

// Literal handle constructors.

func (e *Engine) newUndefined() Handle { return e.newScoped(&guestValue{shape: shapeUndefined}) }
func (e *Engine) newBool(v bool) Handle {
	return e.newScoped(&guestValue{shape: shapeBool, b: v})
}
func (e *Engine) newInt(v int64) Handle {
	return e.newScoped(&guestValue{shape: shapeInt, i: v})
}
func (e *Engine) newNumber(v float64) Handle {
	return e.newScoped(&guestValue{shape: shapeNumber, n: v})
}
func (e *Engine) newString(v string) Handle {
	return e.newScoped(&guestValue{shape: shapeString, s: v})
}
func (e *Engine) newBufferHandle(data []byte) Handle {
	buf := make([]byte, len(data))
	copy(buf, data)
	return e.newScoped(&guestValue{shape: shapeBuffer, buf: buf})
}

// NewObject creates an empty plain guest object and returns its persistent
// wrapper.
func (e *Engine) NewObject() Object {
	g := &guestValue{shape: shapeObject, props: make(map[string]Handle)}
	return Object{engine: e, handle: e.persist(g)}
}

// NewCallable exposes fn to the guest as a function handle.
func (e *Engine) NewCallable(fn GuestFunc) Callable {
	g := &guestValue{shape: shapeFunction, fn: fn}
	return Callable{engine: e, handle: e.persist(g)}
}

// NewBuffer copies data into a guest binary buffer and returns its
// persistent wrapper.
func (e *Engine) NewBuffer(data []byte) Buffer {
	buf := make([]byte, len(data))
	copy(buf, data)
	g := &guestValue{shape: shapeBuffer, buf: buf}
	return Buffer{engine: e, handle: e.persist(g)}
}

// NewArray builds a guest array from the given values in the current scope.
func (e *Engine) NewArray(items ...*ScopedValue) *ScopedValue {
	g := &guestValue{shape: shapeArray}
	for _, it := range items {
		g.items = append(g.items, it.Handle())
	}
	return newScopedValue(e, e.newScoped(g))
}

// Element registry. Registration is keyed by the element's stable identity;
// the wrapping guest object stores that identity in its single marker slot,
// so classification and unwrap both go through the registry rather than a
// structural convention.

// RegisterElement wraps el into a guest object carrying its identity and
// returns the persistent handle. Registering twice returns the same handle.
func (e *Engine) RegisterElement(el *Element) Handle {
	if el == nil {
		panic("elements: RegisterElement called with nil element")
	}
	if h, ok := e.elementHandles[el.id]; ok {
		return h
	}
	g := &guestValue{shape: shapeObject, props: make(map[string]Handle), marker: el.id}
	h := e.persist(g)
	e.elements[el.id] = el
	e.elementHandles[el.id] = h
	e.log.Debug("element registered", "type", el.typeName, "id", el.id.String())
	return h
}

// UnregisterElement removes el from the registry. Its guest wrapper object
// keeps its marker but no longer resolves to a host element.
func (e *Engine) UnregisterElement(el *Element) {
	if el == nil {
		return
	}
	if h, ok := e.elementHandles[el.id]; ok {
		delete(e.persistent, h)
	}
	delete(e.elements, el.id)
	delete(e.elementHandles, el.id)
}

// elementByID resolves a marker identity to its registered element.
func (e *Engine) elementByID(id uuid.UUID) *Element {
	return e.elements[id]
}

// Error channel.

// ReportError delivers an error through the engine's guest-visible error
// channel. The error is accumulated, handed to the configured handler and
// logged; it does not interrupt the host.
func (e *Engine) ReportError(err error, h Handle) {
	ge := GuestError{Err: err, Handle: h}
	e.guestErrors = append(e.guestErrors, ge)
	if e.errHandler != nil {
		e.errHandler(ge)
	}
	e.log.Error("guest error reported", "error", err)
}

// GuestErrors returns all errors reported since the last reset.
func (e *Engine) GuestErrors() []GuestError {
	return e.guestErrors
}

// ResetGuestErrors clears the accumulated guest errors.
func (e *Engine) ResetGuestErrors() {
	e.guestErrors = nil
}

// Coercion primitives. These follow the guest's coercion rules: boolean
// coercion is total, numeric coercion yields NaN for unconvertible shapes,
// integer coercion truncates with NaN mapping to zero.

func (e *Engine) truthy(h Handle) bool {
	g := e.deref(h)
	switch g.shape {
	case shapeUndefined, shapeNull:
		return false
	case shapeBool:
		return g.b
	case shapeInt:
		return g.i != 0
	case shapeNumber:
		return g.n != 0 && !math.IsNaN(g.n)
	case shapeString:
		return g.s != ""
	default:
		return true
	}
}

func (e *Engine) coerceNumber(h Handle) float64 {
	g := e.deref(h)
	switch g.shape {
	case shapeNull:
		return 0
	case shapeBool:
		if g.b {
			return 1
		}
		return 0
	case shapeInt:
		return float64(g.i)
	case shapeNumber:
		return g.n
	case shapeString, shapeStringObject:
		s := strings.TrimSpace(g.s)
		if s == "" {
			return 0
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

func (e *Engine) coerceInt64(h Handle) int64 {
	g := e.deref(h)
	if g.shape == shapeInt {
		return g.i
	}
	n := e.coerceNumber(h)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int64(n)
}

func (e *Engine) coerceInt32(h Handle) int32 {
	return int32(e.coerceInt64(h))
}

func (e *Engine) coerceString(h Handle) string {
	g := e.deref(h)
	switch g.shape {
	case shapeUndefined:
		return "undefined"
	case shapeNull:
		return "null"
	case shapeBool:
		if g.b {
			return "true"
		}
		return "false"
	case shapeInt:
		return strconv.FormatInt(g.i, 10)
	case shapeNumber:
		return formatNumber(g.n)
	case shapeString, shapeStringObject:
		return g.s
	case shapeFunction:
		return "[function]"
	case shapeArray:
		parts := make([]string, len(g.items))
		for i, it := range g.items {
			parts[i] = e.coerceString(it)
		}
		return strings.Join(parts, ",")
	case shapeBuffer:
		return "[object ArrayBuffer]"
	default:
		if g.hasMarker() {
			if el := e.elementByID(g.marker); el != nil {
				return "[element " + el.typeName + "]"
			}
		}
		return "[object Object]"
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == math.Trunc(n) && math.Abs(n) < 1e21:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}
