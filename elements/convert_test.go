package elements_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoobzg/livekeys/elements"
)

func TestFromHandlePrimitivesAreTotal(t *testing.T) {
	engine, _ := newTestScope(t)

	h, err := elements.ToHandle(engine, "12.5")
	require.NoError(t, err)

	b, err := elements.FromHandle[bool](engine, h)
	require.NoError(t, err)
	assert.True(t, b)

	n, err := elements.FromHandle[float64](engine, h)
	require.NoError(t, err)
	assert.Equal(t, 12.5, n)

	i, err := elements.FromHandle[int64](engine, h)
	require.NoError(t, err)
	assert.Equal(t, int64(12), i)

	i32, err := elements.FromHandle[int32](engine, h)
	require.NoError(t, err)
	assert.Equal(t, int32(12), i32)

	s, err := elements.FromHandle[string](engine, h)
	require.NoError(t, err)
	assert.Equal(t, "12.5", s)
}

func TestHandleRoundTrips(t *testing.T) {
	engine, _ := newTestScope(t)

	h, err := elements.ToHandle(engine, int64(99))
	require.NoError(t, err)
	back, err := elements.FromHandle[int64](engine, h)
	require.NoError(t, err)
	assert.Equal(t, int64(99), back)

	h, err = elements.ToHandle(engine, true)
	require.NoError(t, err)
	bb, err := elements.FromHandle[bool](engine, h)
	require.NoError(t, err)
	assert.True(t, bb)

	h, err = elements.ToHandle(engine, 1.25)
	require.NoError(t, err)
	n, err := elements.FromHandle[float64](engine, h)
	require.NoError(t, err)
	assert.Equal(t, 1.25, n)
}

func TestToHandleWrappersReuseHandles(t *testing.T) {
	engine, _ := newTestScope(t)

	obj := engine.NewObject()
	h, err := elements.ToHandle(engine, obj)
	require.NoError(t, err)
	assert.Equal(t, obj.Handle(), h)

	got, err := elements.FromHandle[elements.Object](engine, h)
	require.NoError(t, err)
	assert.True(t, got.Equal(obj))
}

func TestFromHandleCallableAndBuffer(t *testing.T) {
	engine, _ := newTestScope(t)

	fn := engine.NewCallable(func(e *elements.Engine, args []elements.Handle) (elements.Handle, error) {
		return 0, nil
	})
	c, err := elements.FromHandle[elements.Callable](engine, fn.Handle())
	require.NoError(t, err)
	assert.True(t, c.Equal(fn))

	buf := engine.NewBuffer([]byte{9, 8})
	b, err := elements.FromHandle[elements.Buffer](engine, buf.Handle())
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, b.Bytes())

	// Shape mismatches on wrapper targets are InvalidCast.
	h, err := elements.ToHandle(engine, int64(1))
	require.NoError(t, err)
	_, err = elements.FromHandle[elements.Callable](engine, h)
	requireCode(t, err, elements.CodeInvalidCast)
	_, err = elements.FromHandle[elements.Buffer](engine, h)
	requireCode(t, err, elements.CodeInvalidCast)
}

func TestFromHandleElement(t *testing.T) {
	engine, _ := newTestScope(t)
	el := elements.NewElement("Track")

	h, err := elements.ToHandle(engine, el)
	require.NoError(t, err)
	got, err := elements.FromHandle[*elements.Element](engine, h)
	require.NoError(t, err)
	assert.Same(t, el, got)

	// A nil element maps to an undefined handle and back to nil.
	h, err = elements.ToHandle[*elements.Element](engine, nil)
	require.NoError(t, err)
	got, err = elements.FromHandle[*elements.Element](engine, h)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFromHandleElementMismatchReportsToGuest(t *testing.T) {
	engine, _ := newTestScope(t)

	h, err := elements.ToHandle(engine, int64(5))
	require.NoError(t, err)

	_, err = elements.FromHandle[*elements.Element](engine, h)
	requireCode(t, err, elements.CodeInvalidElement)

	// The failure must also surface through the engine's own error channel,
	// separately from the returned error.
	reported := engine.GuestErrors()
	require.Len(t, reported, 1)
	assert.Equal(t, h, reported[0].Handle)
	assert.True(t, elements.IsCode(reported[0].Err, elements.CodeInvalidElement))
}

func TestFromHandleValue(t *testing.T) {
	engine, _ := newTestScope(t)

	h, err := elements.ToHandle(engine, elements.Int64Value(11))
	require.NoError(t, err)
	v, err := elements.FromHandle[elements.Value](engine, h)
	require.NoError(t, err)
	assert.True(t, v.Equal(elements.Int64Value(11)))
}
