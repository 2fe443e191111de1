package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseFootprint(t *testing.T) {
	a := New(0)
	assert.Equal(t, BaseSize, a.Len())
	assert.Equal(t, uint32(0), a.ReadPtr(RootPtr))
}

func TestMallocBorrow(t *testing.T) {
	a := New(16)

	addr, err := a.MallocBorrow([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint32(BaseSize), addr)

	addr2, err := a.MallocBorrow([]byte{4})
	require.NoError(t, err)
	assert.Equal(t, uint32(BaseSize+3), addr2)

	assert.Equal(t, []byte{1, 2, 3}, a.Read(addr, 3))
	assert.Equal(t, []byte{4}, a.Read(addr2, 1))
}

func TestPtrSlot(t *testing.T) {
	a := New(0)

	a.WritePtr(RootPtr, 42)
	assert.Equal(t, uint32(42), a.ReadPtr(RootPtr))

	a.WritePtr(RootPtr, 0)
	assert.Equal(t, uint32(0), a.ReadPtr(RootPtr))

	// out-of-range slots read as empty
	assert.Equal(t, uint32(0), a.ReadPtr(1<<20))
}

func TestWriteInPlace(t *testing.T) {
	a := New(0)
	addr, err := a.MallocBorrow([]byte{0, 0})
	require.NoError(t, err)

	before := a.Len()
	a.Write(addr, []byte{9, 8})
	assert.Equal(t, before, a.Len())
	assert.Equal(t, []byte{9, 8}, a.Read(addr, 2))
}

func TestReadOutOfRange(t *testing.T) {
	a := New(0)
	assert.Nil(t, a.Read(uint32(a.Len()), 1))
}

func TestFromBytes(t *testing.T) {
	a := New(0)
	addr, err := a.MallocBorrow([]byte{7})
	require.NoError(t, err)
	a.WritePtr(RootPtr, addr)

	b := FromBytes(a.Bytes())
	assert.Equal(t, addr, b.ReadPtr(RootPtr))
	assert.Equal(t, []byte{7}, b.Read(addr, 1))

	// short input falls back to an empty arena
	c := FromBytes([]byte{1, 2})
	assert.Equal(t, BaseSize, c.Len())
}
