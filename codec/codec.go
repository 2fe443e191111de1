// Package codec centralizes JSON encoding for schema documents and value
// export.
//
// The schema compiler never parses JSON itself; it receives documents
// through a Codec, so callers can swap the parser without touching the
// compiler. Codec selection is a compatibility boundary for value export:
// both built-in codecs produce interchangeable JSON, but a custom codec
// must agree with them on number formatting if its output feeds SetJSON.
package codec

import "fmt"

// Codec encodes and decodes JSON values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// MustMarshal is a helper for internal tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
