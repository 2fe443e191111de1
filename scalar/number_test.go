package scalar

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/schema"
)

func compileJSON(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.CompileJSON(nil, []byte(doc))
	require.NoError(t, err)
	return s
}

func rootCursor() arena.Cursor {
	return arena.Cursor{PtrAddr: arena.RootPtr, SchemaIndex: 0}
}

func roundTrip[T schema.Number](t *testing.T, doc string, first, second T) {
	t.Helper()

	c := NumberFor[T]()
	require.NotNil(t, c)

	s := compileJSON(t, doc)
	a := arena.New(0)
	cur := rootCursor()

	_, ok := c.Read(a, cur)
	assert.False(t, ok, "fresh buffer must read absent")

	require.NoError(t, c.Write(a, cur, first))
	got, ok := c.Read(a, cur)
	require.True(t, ok)
	assert.Equal(t, first, got)

	// second write must land in place, not grow the arena
	size := a.Len()
	require.NoError(t, c.Write(a, cur, second))
	assert.Equal(t, size, a.Len())

	got, ok = c.Read(a, cur)
	require.True(t, ok)
	assert.Equal(t, second, got)

	assert.Equal(t, len(s.Nodes()), 1)
}

func TestNumberRoundTrip(t *testing.T) {
	t.Run("int8", func(t *testing.T) { roundTrip[int8](t, `{"type":"int8"}`, -98, 127) })
	t.Run("int16", func(t *testing.T) { roundTrip[int16](t, `{"type":"int16"}`, -2983, 30000) })
	t.Run("int32", func(t *testing.T) { roundTrip[int32](t, `{"type":"int32"}`, -298398, 2147483647) })
	t.Run("int64", func(t *testing.T) { roundTrip[int64](t, `{"type":"int64"}`, -983984898, math.MaxInt64) })
	t.Run("uint8", func(t *testing.T) { roundTrip[uint8](t, `{"type":"uint8"}`, 198, 255) })
	t.Run("uint16", func(t *testing.T) { roundTrip[uint16](t, `{"type":"uint16"}`, 1984, 65535) })
	t.Run("uint32", func(t *testing.T) { roundTrip[uint32](t, `{"type":"uint32"}`, 198284, math.MaxUint32) })
	t.Run("uint64", func(t *testing.T) { roundTrip[uint64](t, `{"type":"uint64"}`, 1984098, math.MaxUint64) })
	t.Run("float", func(t *testing.T) { roundTrip[float32](t, `{"type":"float"}`, -3.1415, 2983.2938) })
	t.Run("double", func(t *testing.T) { roundTrip[float64](t, `{"type":"double"}`, -3.141592653589793, 2983.29938) })
}

// payload returns the stored bytes for a freshly written value, so byte
// order properties can be checked directly.
func payload[T schema.Number](t *testing.T, v T) []byte {
	t.Helper()
	c := NumberFor[T]()
	a := arena.New(0)
	require.NoError(t, c.Write(a, rootCursor(), v))
	return a.Bytes()[arena.BaseSize:]
}

func TestSignedEncodingPreservesOrder(t *testing.T) {
	pairs := [][2]int64{
		{math.MinInt64, -1},
		{-1, 0},
		{0, 1},
		{1, math.MaxInt64},
		{-300, -2},
	}
	for _, p := range pairs {
		lo := payload(t, p[0])
		hi := payload(t, p[1])
		assert.Negativef(t, bytes.Compare(lo, hi), "%d must encode below %d", p[0], p[1])
	}

	small := [][2]int8{{math.MinInt8, -1}, {-1, 0}, {0, math.MaxInt8}}
	for _, p := range small {
		assert.Negative(t, bytes.Compare(payload(t, p[0]), payload(t, p[1])))
	}
}

func TestUnsignedEncodingPreservesOrder(t *testing.T) {
	pairs := [][2]uint32{{0, 1}, {1, 255}, {255, 256}, {65535, math.MaxUint32}}
	for _, p := range pairs {
		assert.Negative(t, bytes.Compare(payload(t, p[0]), payload(t, p[1])))
	}
}

func TestNumberDefault(t *testing.T) {
	s := compileJSON(t, `{"type":"int8","default":56}`)
	a := arena.New(0)
	cur := rootCursor()

	_, ok := Int8.Read(a, cur)
	assert.False(t, ok)

	d, ok := Int8.Default(s.Nodes(), 0)
	require.True(t, ok)
	assert.Equal(t, int8(56), d)

	assert.Equal(t, int64(56), Int8.ValueJSON(a, cur, s.Nodes()))

	require.NoError(t, Int8.Write(a, cur, 126))
	assert.Equal(t, int64(126), Int8.ValueJSON(a, cur, s.Nodes()))

	// delete clears the slot again, so the default shows through
	Int8.Delete(a, cur)
	_, ok = Int8.Read(a, cur)
	assert.False(t, ok)
	assert.Equal(t, int64(56), Int8.ValueJSON(a, cur, s.Nodes()))
}

func TestNumberNoDefault(t *testing.T) {
	s := compileJSON(t, `{"type":"uint16"}`)
	a := arena.New(0)

	_, ok := Uint16.Default(s.Nodes(), 0)
	assert.False(t, ok)
	assert.Nil(t, Uint16.ValueJSON(a, rootCursor(), s.Nodes()))
}

func TestNumberSizeAndDelete(t *testing.T) {
	s := compileJSON(t, `{"type":"int32"}`)
	a := arena.New(0)
	cur := rootCursor()

	assert.Equal(t, 0, Int32.Size(a, cur, s.Nodes()))

	require.NoError(t, Int32.Write(a, cur, 42))
	assert.Equal(t, 4, Int32.Size(a, cur, s.Nodes()))

	Int32.Delete(a, cur)
	assert.Equal(t, 0, Int32.Size(a, cur, s.Nodes()))

	// payload bytes stay behind as garbage until compaction
	assert.Equal(t, arena.BaseSize+4, a.Len())
}

func TestNumberSetValueJSON(t *testing.T) {
	s := compileJSON(t, `{"type":"int16"}`)
	a := arena.New(0)
	cur := rootCursor()

	require.NoError(t, Int16.SetValueJSON(a, cur, s.Nodes(), float64(-1204)))
	v, ok := Int16.Read(a, cur)
	require.True(t, ok)
	assert.Equal(t, int16(-1204), v)

	// mismatched JSON input is ignored, the stored value survives
	require.NoError(t, Int16.SetValueJSON(a, cur, s.Nodes(), "not a number"))
	v, ok = Int16.Read(a, cur)
	require.True(t, ok)
	assert.Equal(t, int16(-1204), v)
}

func TestNumberBounds(t *testing.T) {
	assert.Equal(t, int8(127), Int8.MaxValue())
	assert.Equal(t, int8(-128), Int8.MinValue())
	assert.Equal(t, uint64(math.MaxUint64), Uint64.MaxValue())
	assert.Equal(t, uint64(0), Uint64.MinValue())
	assert.Equal(t, float64(math.MaxFloat64), Float64.MaxValue())
	assert.Equal(t, -float64(math.MaxFloat64), Float64.MinValue())
}

type myInt int32

func TestNumberForNamedType(t *testing.T) {
	assert.Nil(t, NumberFor[myInt]())
	assert.Same(t, Int32, NumberFor[int32]())
}
