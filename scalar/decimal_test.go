package scalar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/dec"
)

func TestDecRoundTrip(t *testing.T) {
	s := compileJSON(t, `{"type":"decimal","exp":2}`)
	a := arena.New(0)
	cur := rootCursor()

	_, ok := Dec.Read(a, cur, s.Nodes())
	assert.False(t, ok)

	require.NoError(t, Dec.Write(a, cur, s.Nodes(), dec.New(2049, 2)))
	v, ok := Dec.Read(a, cur, s.Nodes())
	require.True(t, ok)
	assert.Equal(t, dec.New(2049, 2), v)
	assert.Equal(t, 20.49, v.Float())

	// second write lands in place
	size := a.Len()
	require.NoError(t, Dec.Write(a, cur, s.Nodes(), dec.New(-150, 2)))
	assert.Equal(t, size, a.Len())

	v, ok = Dec.Read(a, cur, s.Nodes())
	require.True(t, ok)
	assert.Equal(t, int64(-150), v.Num)
}

func TestDecWriteConvertsToSchemaExp(t *testing.T) {
	s := compileJSON(t, `{"type":"decimal","exp":2}`)
	a := arena.New(0)
	cur := rootCursor()

	// finer precision than the schema holds is truncated
	require.NoError(t, Dec.Write(a, cur, s.Nodes(), dec.New(12345, 3)))
	v, ok := Dec.Read(a, cur, s.Nodes())
	require.True(t, ok)
	assert.Equal(t, dec.New(1234, 2), v)

	// coarser precision is scaled up
	require.NoError(t, Dec.Write(a, cur, s.Nodes(), dec.New(7, 0)))
	v, ok = Dec.Read(a, cur, s.Nodes())
	require.True(t, ok)
	assert.Equal(t, dec.New(700, 2), v)
}

func decPayload(t *testing.T, v dec.Dec) []byte {
	t.Helper()
	s := compileJSON(t, `{"type":"decimal","exp":2}`)
	a := arena.New(0)
	require.NoError(t, Dec.Write(a, rootCursor(), s.Nodes(), v))
	return a.Bytes()[arena.BaseSize:]
}

func TestDecEncodingPreservesOrder(t *testing.T) {
	pairs := [][2]dec.Dec{
		{dec.New(-300, 2), dec.New(-2, 2)},
		{dec.New(-1, 2), dec.New(0, 2)},
		{dec.New(0, 2), dec.New(1, 2)},
		{dec.New(150, 2), dec.New(2049, 2)},
	}
	for _, p := range pairs {
		lo := decPayload(t, p[0])
		hi := decPayload(t, p[1])
		assert.Negativef(t, bytes.Compare(lo, hi), "%v must encode below %v", p[0], p[1])
	}
}

func TestDecDefault(t *testing.T) {
	s := compileJSON(t, `{"type":"decimal","exp":2,"default":5.12}`)
	a := arena.New(0)
	cur := rootCursor()

	d, ok := Dec.Default(s.Nodes(), 0)
	require.True(t, ok)
	assert.Equal(t, dec.New(512, 2), d)

	got := Dec.ValueJSON(a, cur, s.Nodes()).(map[string]any)
	assert.Equal(t, 5.12, got["value"])
}

func TestDecValueJSON(t *testing.T) {
	s := compileJSON(t, `{"type":"decimal","exp":2}`)
	a := arena.New(0)
	cur := rootCursor()

	assert.Nil(t, Dec.ValueJSON(a, cur, s.Nodes()))

	require.NoError(t, Dec.Write(a, cur, s.Nodes(), dec.New(2049, 2)))
	got := Dec.ValueJSON(a, cur, s.Nodes()).(map[string]any)
	assert.Equal(t, 20.49, got["value"])

	parts := got["parts"].(map[string]any)
	assert.Equal(t, int64(2049), parts["num"])
	assert.Equal(t, uint8(2), parts["exp"])
}

func TestDecSetValueJSON(t *testing.T) {
	s := compileJSON(t, `{"type":"decimal","exp":2}`)
	a := arena.New(0)
	cur := rootCursor()

	require.NoError(t, Dec.SetValueJSON(a, cur, s.Nodes(), map[string]any{
		"parts": map[string]any{"num": float64(2049), "exp": float64(2)},
	}))
	v, ok := Dec.Read(a, cur, s.Nodes())
	require.True(t, ok)
	assert.Equal(t, dec.New(2049, 2), v)

	// malformed parts are an error, not a silent ignore
	err := Dec.SetValueJSON(a, cur, s.Nodes(), map[string]any{
		"parts": map[string]any{"num": "nope", "exp": float64(2)},
	})
	assert.ErrorIs(t, err, ErrDecParts)

	err = Dec.SetValueJSON(a, cur, s.Nodes(), map[string]any{
		"parts": map[string]any{"num": float64(1), "exp": float64(300)},
	})
	assert.ErrorIs(t, err, ErrDecParts)

	// a bare number is accepted
	require.NoError(t, Dec.SetValueJSON(a, cur, s.Nodes(), 17.52))
	v, ok = Dec.Read(a, cur, s.Nodes())
	require.True(t, ok)
	assert.Equal(t, dec.New(1752, 2), v)
}
