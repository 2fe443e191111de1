// Package idl parses the compact textual schema declaration syntax:
// a type name followed by an optional argument object, e.g.
//
//	i8({default: -98})
//	dec({exp: 2, default: 5.12})
//	uuid()
//
// Argument values are kept as raw literal text; each type interprets its
// own arguments during compilation. The syntax covers scalar declarations
// only — argument values never contain nested objects or commas.
package idl

import (
	"fmt"
	"strings"
)

// Call is one parsed declaration: the type name and its arguments.
type Call struct {
	Name string
	Args map[string]string
}

// Arg returns the raw text of the named argument.
func (c *Call) Arg(name string) (string, bool) {
	v, ok := c.Args[name]
	return v, ok
}

// Parse parses a single declaration.
func Parse(s string) (*Call, error) {
	s = strings.TrimSpace(s)

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("idl: malformed declaration %q", s)
	}

	call := &Call{
		Name: strings.TrimSpace(s[:open]),
		Args: map[string]string{},
	}

	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return call, nil
	}

	if !strings.HasPrefix(inner, "{") || !strings.HasSuffix(inner, "}") {
		return nil, fmt.Errorf("idl: arguments must be an object, got %q", inner)
	}

	for _, pair := range strings.Split(inner[1:len(inner)-1], ",") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("idl: malformed argument %q", pair)
		}
		call.Args[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return call, nil
}
