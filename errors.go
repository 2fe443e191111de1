package ptrbuf

import (
	"errors"
	"fmt"

	"github.com/ptrbuf/ptrbuf/schema"
)

var (
	// ErrNoCodec is returned when a buffer holds a type no codec is
	// registered for. This indicates a corrupted schema, not caller error.
	ErrNoCodec = errors.New("no codec registered for schema type")
)

// ErrTypeMismatch indicates an accessor asked for a different type than
// the one the schema declares.
type ErrTypeMismatch struct {
	Want schema.TypeKey
	Got  schema.TypeKey
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch: schema holds %s, asked for %s", e.Got, e.Want)
}
