package bitwire

import (
	"fmt"
	"strconv"
	"strings"
)

type kind uint8

const (
	kindUint kind = iota
	kindInt
	kindBool
	kindByte
	kindChar
	kindBytes
	kindCString
	kindString
	kindFloat
	kindArray
)

// Field is one (name, type) descriptor in a schema. Type descriptors:
//
//	u<1-32>    fixed-width unsigned integer, e.g. "u8", "u12"
//	i<1-32>    fixed-width signed integer (two's-complement)
//	bool       single bit, 1 = true
//	byte       8-bit unsigned value
//	char       8-bit value viewed as a one-character string
//	bytes:<n>  raw block of exactly n bytes
//	cstring    NUL-terminated byte string
//	string     length-prefixed string (byte-aligned, 0-255 bytes)
//	float      decimal text through the length-prefixed string path
//
// A nested repeated structure is declared with Elem instead of Type.
type Field struct {
	Name string
	Type string
	Elem *Schema

	kind  kind
	width int // bit width for u/i, byte length for bytes:<n>
}

// F builds a primitive field descriptor.
func F(name, typ string) Field {
	return Field{Name: name, Type: typ}
}

// Array builds a nested repeated-structure field. On the wire the field
// starts with a 4-bit element count (0-15).
func Array(name string, elem *Schema) Field {
	return Field{Name: name, Elem: elem}
}

// Schema is an ordered field specification plus an optional delta
// specification gating groups of optional fields behind shared presence
// bits. Field order and delta-group order are the wire contract: changing
// either between pack and unpack silently misreads the stream.
type Schema struct {
	fields []Field
	deltas [][]string
	gated  map[string]int // field name -> index into deltas
}

// NewSchema validates the descriptors and returns the schema. Unrecognized
// type descriptors and duplicate names fail here, not at pack time.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{fields: make([]Field, len(fields))}
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Elem != nil {
			f.kind = kindArray
		} else {
			k, w, err := parseType(f.Type)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			f.kind, f.width = k, w
		}
		s.fields[i] = f
	}
	return s, nil
}

// WithDeltas attaches the delta specification. Each group is gated by one
// shared presence bit; every member must be a declared field and may belong
// to at most one group. Fields outside every group stay mandatory.
func (s *Schema) WithDeltas(groups ...[]string) (*Schema, error) {
	gated := make(map[string]int)
	for gi, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("delta group %d is empty", gi)
		}
		for _, name := range g {
			if !s.has(name) {
				return nil, fmt.Errorf("delta group %d: unknown field %q", gi, name)
			}
			if _, dup := gated[name]; dup {
				return nil, fmt.Errorf("field %q appears in more than one delta group", name)
			}
			gated[name] = gi
		}
	}
	s.deltas = groups
	s.gated = gated
	return s, nil
}

func (s *Schema) has(name string) bool {
	for _, f := range s.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func parseType(typ string) (kind, int, error) {
	switch typ {
	case "bool":
		return kindBool, 1, nil
	case "byte":
		return kindByte, 8, nil
	case "char":
		return kindChar, 8, nil
	case "cstring":
		return kindCString, 0, nil
	case "string":
		return kindString, 0, nil
	case "float":
		return kindFloat, 0, nil
	}
	if n, ok := strings.CutPrefix(typ, "bytes:"); ok {
		w, err := strconv.Atoi(n)
		if err != nil || w < 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnknownType, typ)
		}
		return kindBytes, w, nil
	}
	if len(typ) >= 2 && (typ[0] == 'u' || typ[0] == 'i') {
		w, err := strconv.Atoi(typ[1:])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrUnknownType, typ)
		}
		if w < 1 || w > 32 {
			return 0, 0, fmt.Errorf("%w: width %d in %q", ErrBitWidth, w, typ)
		}
		if typ[0] == 'u' {
			return kindUint, w, nil
		}
		return kindInt, w, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnknownType, typ)
}
