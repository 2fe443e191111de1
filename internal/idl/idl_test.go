package idl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Call
	}{
		{
			"NoArgs",
			"uuid()",
			Call{Name: "uuid", Args: map[string]string{}},
		},
		{
			"SingleArg",
			"i8({default: -98})",
			Call{Name: "i8", Args: map[string]string{"default": "-98"}},
		},
		{
			"TwoArgs",
			"dec({exp: 2, default: 5.12})",
			Call{Name: "dec", Args: map[string]string{"exp": "2", "default": "5.12"}},
		},
		{
			"Whitespace",
			"  u32( { default : 7 } )  ",
			Call{Name: "u32", Args: map[string]string{"default": "7"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"i8",
		"i8(",
		"(default: 1)",
		"i8(default: 1)",
		"i8({default})",
	} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}
