package scalar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/uid"
)

func TestUUIDRoundTrip(t *testing.T) {
	s := compileJSON(t, `{"type":"uuid"}`)
	a := arena.New(0)
	cur := rootCursor()

	_, ok := UUID.Read(a, cur)
	assert.False(t, ok)
	assert.Nil(t, UUID.ValueJSON(a, cur, s.Nodes()))

	u, err := uid.New(strings.NewReader("aaaabbbbccccdddd"))
	require.NoError(t, err)
	require.NoError(t, UUID.Write(a, cur, u))

	got, ok := UUID.Read(a, cur)
	require.True(t, ok)
	assert.Equal(t, u, got)
	assert.Equal(t, u.String(), UUID.ValueJSON(a, cur, s.Nodes()))
}

func TestUUIDSetValueJSON(t *testing.T) {
	s := compileJSON(t, `{"type":"uuid"}`)
	a := arena.New(0)
	cur := rootCursor()

	const text = "48E6AAB0-7DF5-409F-4D57-4D969FA065EE"
	require.NoError(t, UUID.SetValueJSON(a, cur, s.Nodes(), text))

	got, ok := UUID.Read(a, cur)
	require.True(t, ok)
	assert.Equal(t, text, got.String())

	// non-string input leaves the stored value alone
	require.NoError(t, UUID.SetValueJSON(a, cur, s.Nodes(), 42))
	got, _ = UUID.Read(a, cur)
	assert.Equal(t, text, got.String())
}

func TestUUIDSizeAndDelete(t *testing.T) {
	s := compileJSON(t, `{"type":"uuid"}`)
	a := arena.New(0)
	cur := rootCursor()

	assert.Equal(t, 0, UUID.Size(a, cur, s.Nodes()))

	u, err := uid.NewRandom()
	require.NoError(t, err)
	require.NoError(t, UUID.Write(a, cur, u))
	assert.Equal(t, 16, UUID.Size(a, cur, s.Nodes()))

	UUID.Delete(a, cur)
	assert.Equal(t, 0, UUID.Size(a, cur, s.Nodes()))
}
