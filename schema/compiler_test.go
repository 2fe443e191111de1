package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/ptrbuf/ptrbuf/scalar"
	"github.com/ptrbuf/ptrbuf/schema"
)

func TestCompileTriSourceIdentity(t *testing.T) {
	tests := []struct {
		name string
		json string
		idl  string
		frag []byte
	}{
		{
			name: "int8 with default",
			json: `{"type":"int8","default":56}`,
			idl:  "i8({default: 56})",
			frag: []byte{1, 1, 56},
		},
		{
			name: "int8 bare",
			json: `{"type":"int8"}`,
			idl:  "i8()",
			frag: []byte{1, 0},
		},
		{
			name: "uint16 with default",
			json: `{"type":"uint16","default":283}`,
			idl:  "u16({default: 283})",
			frag: []byte{6, 1, 0x01, 0x1B},
		},
		{
			name: "int64 negative default",
			json: `{"type":"int64","default":-1}`,
			idl:  "i64({default: -1})",
			frag: []byte{4, 1, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name: "decimal",
			json: `{"type":"decimal","exp":2,"default":5.12}`,
			idl:  "dec({exp: 2, default: 5.12})",
			frag: []byte{11, 2, 1, 0, 0, 0, 0, 0, 0, 0x02, 0x00},
		},
		{
			name: "decimal bare",
			json: `{"type":"decimal","exp":4}`,
			idl:  "dec({exp: 4})",
			frag: []byte{11, 4, 0},
		},
		{
			name: "uuid",
			json: `{"type":"uuid"}`,
			idl:  "uuid()",
			frag: []byte{12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromJSON, err := schema.CompileJSON(nil, []byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.frag, fromJSON.Bytes())

			fromIDL, err := schema.CompileIDL(tt.idl)
			require.NoError(t, err)
			assert.Equal(t, tt.frag, fromIDL.Bytes())

			fromBytes, err := schema.CompileBytes(tt.frag)
			require.NoError(t, err)
			assert.Equal(t, tt.frag, fromBytes.Bytes())

			// every source re-emits the same canonical documents
			doc, err := fromBytes.ToJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(doc))

			text, err := fromJSON.ToIDL()
			require.NoError(t, err)
			assert.Equal(t, tt.idl, text)
		})
	}
}

func TestCompileAcceptsIDLNamesInJSON(t *testing.T) {
	s, err := schema.CompileJSON(nil, []byte(`{"type":"i8"}`))
	require.NoError(t, err)

	doc, err := s.ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"int8"}`, string(doc))
}

func TestCompileErrors(t *testing.T) {
	t.Run("unknown type name", func(t *testing.T) {
		_, err := schema.CompileJSON(nil, []byte(`{"type":"int128"}`))
		var unknown *schema.ErrUnknownType
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "int128", unknown.Name)
	})

	t.Run("missing type key", func(t *testing.T) {
		_, err := schema.CompileJSON(nil, []byte(`{"default":1}`))
		var unknown *schema.ErrUnknownType
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := schema.CompileJSON(nil, []byte(`{"type":`))
		assert.Error(t, err)
	})

	t.Run("decimal missing exp", func(t *testing.T) {
		_, err := schema.CompileJSON(nil, []byte(`{"type":"decimal"}`))
		assert.Error(t, err)
	})

	t.Run("decimal exp out of range", func(t *testing.T) {
		_, err := schema.CompileJSON(nil, []byte(`{"type":"decimal","exp":300}`))
		assert.Error(t, err)
	})

	t.Run("decimal non numeric default", func(t *testing.T) {
		_, err := schema.CompileJSON(nil, []byte(`{"type":"decimal","exp":2,"default":"abc"}`))
		assert.Error(t, err)
	})

	t.Run("empty bytes", func(t *testing.T) {
		_, err := schema.CompileBytes(nil)
		assert.ErrorIs(t, err, schema.ErrEmptySchema)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := schema.CompileBytes([]byte{99})
		var unknown *schema.ErrUnknownTag
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, schema.TypeKey(99), unknown.Tag)
	})

	t.Run("truncated number default", func(t *testing.T) {
		_, err := schema.CompileBytes([]byte{4, 1, 0xFF})
		assert.Error(t, err)
	})

	t.Run("truncated decimal header", func(t *testing.T) {
		_, err := schema.CompileBytes([]byte{11, 2})
		assert.Error(t, err)
	})

	t.Run("malformed idl", func(t *testing.T) {
		_, err := schema.CompileIDL("i8({default: 1")
		assert.Error(t, err)
	})
}

func TestNodeShape(t *testing.T) {
	s, err := schema.CompileJSON(nil, []byte(`{"type":"int16","default":-7}`))
	require.NoError(t, err)

	n := s.Root()
	assert.Equal(t, schema.TypeInt16, n.Type)
	assert.False(t, n.Variable)
	assert.Equal(t, uint32(2), n.Bytes)
	assert.True(t, n.Sortable)

	cfg, ok := n.Config.(schema.NumberConfig[int16])
	require.True(t, ok)
	require.NotNil(t, cfg.Default)
	assert.Equal(t, int16(-7), *cfg.Default)

	f, err := schema.CompileJSON(nil, []byte(`{"type":"double"}`))
	require.NoError(t, err)
	assert.False(t, f.Root().Sortable)
}
