package elements_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoobzg/livekeys/elements"
	"github.com/anoobzg/livekeys/logging"
)

func TestScopeReleasesHandles(t *testing.T) {
	engine := elements.New(elements.WithLogger(logging.NoOpLogger{}))

	scope := engine.OpenScope()
	sv := elements.ScopedInt32(engine, 7)
	assert.Equal(t, int32(7), sv.ToInt32())
	scope.Close()

	// The handle died with its scope.
	assert.Panics(t, func() { sv.ToInt32() })

	// Closing twice is a no-op.
	scope.Close()
}

func TestNestedScopes(t *testing.T) {
	engine := elements.New()

	outer := engine.OpenScope()
	defer outer.Close()
	a := elements.ScopedString(engine, "outer")

	inner := engine.OpenScope()
	b := elements.ScopedString(engine, "inner")
	assert.Equal(t, "inner", b.ToString())
	inner.Close()

	// Outer handles survive the inner scope.
	assert.Equal(t, "outer", a.ToString())
	assert.Panics(t, func() { b.ToString() })
}

func TestScopedConstructionRequiresScope(t *testing.T) {
	engine := elements.New()
	assert.Panics(t, func() { elements.ScopedBool(engine, true) })
}

func TestPersistentWrappersOutliveScopes(t *testing.T) {
	engine := elements.New()

	scope := engine.OpenScope()
	obj, err := elements.ScopedString(engine, "kept").ToObject()
	require.NoError(t, err)
	scope.Close()

	// The boxed object is persistent; a later scope can still wrap it.
	scope2 := engine.OpenScope()
	defer scope2.Close()
	sv := elements.ScopedFromObject(engine, obj)
	assert.Equal(t, "kept", sv.ToString())
}

func TestElementRegistryIsIdentityKeyed(t *testing.T) {
	engine := elements.New()
	scope := engine.OpenScope()
	defer scope.Close()

	el := elements.NewElement("Track")
	other := elements.NewElement("Track")
	assert.NotEqual(t, el.ID(), other.ID())

	h1 := engine.RegisterElement(el)
	h2 := engine.RegisterElement(el)
	assert.Equal(t, h1, h2, "re-registering must return the same handle")

	h3 := engine.RegisterElement(other)
	assert.NotEqual(t, h1, h3, "same type name must not alias distinct identities")

	sv := elements.ScopedFromElement(engine, el)
	got, err := sv.ToElement()
	require.NoError(t, err)
	assert.Same(t, el, got)
}

func TestCallableCall(t *testing.T) {
	engine := elements.New()
	scope := engine.OpenScope()
	defer scope.Close()

	add := engine.NewCallable(func(e *elements.Engine, args []elements.Handle) (elements.Handle, error) {
		var sum int64
		for _, h := range args {
			n, err := elements.FromHandle[int64](e, h)
			if err != nil {
				return 0, err
			}
			sum += n
		}
		return elements.ToHandle(e, sum)
	})

	res, err := add.Call(elements.ScopedInt32(engine, 2), elements.ScopedInt32(engine, 40))
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.ToInt64())
}

func TestCallableCallPropagatesErrors(t *testing.T) {
	engine := elements.New()
	scope := engine.OpenScope()
	defer scope.Close()

	boom := errors.New("boom")
	fail := engine.NewCallable(func(e *elements.Engine, args []elements.Handle) (elements.Handle, error) {
		return 0, boom
	})

	_, err := fail.Call()
	assert.ErrorIs(t, err, boom)
}

func TestReportErrorHandlerAndReset(t *testing.T) {
	var seen []elements.GuestError
	engine := elements.New(elements.WithErrorHandler(func(ge elements.GuestError) {
		seen = append(seen, ge)
	}))

	err := errors.New("guest visible")
	engine.ReportError(err, 0)

	require.Len(t, seen, 1)
	assert.Equal(t, err, seen[0].Err)
	require.Len(t, engine.GuestErrors(), 1)

	engine.ResetGuestErrors()
	assert.Empty(t, engine.GuestErrors())
}

func TestObjectProperties(t *testing.T) {
	engine := elements.New()
	scope := engine.OpenScope()
	defer scope.Close()

	obj := engine.NewObject()
	obj.Set("width", elements.ScopedInt32(engine, 800))

	assert.True(t, obj.Has("width"))
	assert.Equal(t, int32(800), obj.Get("width").ToInt32())
	assert.True(t, obj.Get("missing").IsNull())
}

func TestBufferCopiesOnScopedConstruction(t *testing.T) {
	engine := elements.New()
	scope := engine.OpenScope()
	defer scope.Close()

	src := []byte{1, 2, 3}
	buf := engine.NewBuffer(src)
	src[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, buf.Bytes(), "NewBuffer must copy")

	sv := elements.ScopedFromBuffer(engine, buf)
	assert.True(t, sv.IsBuffer())
	got, err := sv.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), got.Bytes())
	assert.False(t, got.Equal(buf), "scoped construction allocates a fresh buffer")
}
