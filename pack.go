package bitwire

import (
	"fmt"
	"strings"

	"github.com/rawbytedev/bitwire/internal/common"
)

// The 4-bit element count caps nested arrays at 15.
const (
	arrayCountBits = 4
	maxArrayLen    = 15
)

// Value is a tree-shaped message keyed by field name. Nested repeated
// structures are []Value. Pack and Unpack never retain a Value or Schema
// past a single call.
type Value map[string]any

// Marshal packs v against schema into a fresh byte sequence, including a
// trailing partial byte if the message does not end on a byte boundary.
func Marshal(s *Schema, v Value) ([]byte, error) {
	c := NewCursor()
	if err := Pack(c, s, v); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// Unmarshal unpacks one message from data against schema.
func Unmarshal(data []byte, s *Schema) (Value, error) {
	return Unpack(NewCursorBytes(data), s)
}

// Pack writes one presence bit per delta group in declaration order, then
// walks the field descriptors in order, skipping fields whose group is
// absent. A group with some but not all members present is a schema
// violation. A failed pack may leave c partially written; discard the
// cursor on error.
func Pack(c *Cursor, s *Schema, v Value) error {
	present := make([]bool, len(s.deltas))
	for gi, group := range s.deltas {
		n := 0
		for _, name := range group {
			if _, ok := v[name]; ok {
				n++
			}
		}
		switch n {
		case 0:
			if err := c.WriteBits(0, 1); err != nil {
				return err
			}
		case len(group):
			present[gi] = true
			if err := c.WriteBits(1, 1); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: group %d (%s)", ErrDeltaPartial, gi, strings.Join(group, ", "))
		}
	}
	for _, f := range s.fields {
		if gi, gated := s.gated[f.Name]; gated && !present[gi] {
			continue
		}
		raw, ok := v[f.Name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrFieldMissing, f.Name)
		}
		if err := packField(c, f, raw); err != nil {
			return err
		}
	}
	return nil
}

// Unpack is the exact mirror of Pack: presence bits in the same group
// order, then fields in declaration order. Each recursion re-evaluates its
// own schema's delta specification.
func Unpack(c *Cursor, s *Schema) (Value, error) {
	present := make([]bool, len(s.deltas))
	for gi := range s.deltas {
		bit, err := c.ReadBits(1)
		if err != nil {
			return nil, err
		}
		present[gi] = bit == 1
	}
	v := make(Value, len(s.fields))
	for _, f := range s.fields {
		if gi, gated := s.gated[f.Name]; gated && !present[gi] {
			continue
		}
		out, err := unpackField(c, f)
		if err != nil {
			return nil, err
		}
		v[f.Name] = out
	}
	return v, nil
}

func packField(c *Cursor, f Field, raw any) error {
	switch f.kind {
	case kindArray:
		list, ok := asList(raw)
		if !ok {
			return fmt.Errorf("%w: field %q wants a nested list, got %T", ErrBadValue, f.Name, raw)
		}
		if len(list) > maxArrayLen {
			return fmt.Errorf("%w: field %q has %d elements", ErrArrayTooLong, f.Name, len(list))
		}
		if err := c.WriteBits(uint32(len(list)), arrayCountBits); err != nil {
			return err
		}
		for _, elem := range list {
			if err := Pack(c, f.Elem, elem); err != nil {
				return err
			}
		}
		return nil
	case kindUint:
		u, ok := common.AsUint32(raw)
		if !ok {
			return badValue(f, raw)
		}
		return c.WriteUint(u, f.width)
	case kindInt:
		i, ok := common.AsInt32(raw)
		if !ok {
			return badValue(f, raw)
		}
		return c.WriteInt(i, f.width)
	case kindBool:
		b, ok := raw.(bool)
		if !ok {
			return badValue(f, raw)
		}
		return c.WriteBool(b)
	case kindByte:
		u, ok := common.AsUint32(raw)
		if !ok || u > 0xFF {
			return badValue(f, raw)
		}
		return c.WriteByte(byte(u))
	case kindChar:
		switch t := raw.(type) {
		case string:
			if len(t) != 1 {
				return badValue(f, raw)
			}
			return c.WriteByte(t[0])
		case byte:
			return c.WriteByte(t)
		}
		return badValue(f, raw)
	case kindBytes:
		p, ok := raw.([]byte)
		if !ok || len(p) != f.width {
			return badValue(f, raw)
		}
		return c.WriteBlock(p)
	case kindCString:
		str, ok := raw.(string)
		if !ok {
			return badValue(f, raw)
		}
		return c.WriteCString(str)
	case kindString:
		str, ok := raw.(string)
		if !ok {
			return badValue(f, raw)
		}
		if err := c.WriteString(str); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		return nil
	case kindFloat:
		fv, ok := common.AsFloat64(raw)
		if !ok {
			return badValue(f, raw)
		}
		return c.WriteFloat(fv)
	}
	return fmt.Errorf("%w: field %q", ErrUnknownType, f.Name)
}

func unpackField(c *Cursor, f Field) (any, error) {
	switch f.kind {
	case kindArray:
		n, err := c.ReadBits(arrayCountBits)
		if err != nil {
			return nil, err
		}
		list := make([]Value, n)
		for i := range list {
			elem, err := Unpack(c, f.Elem)
			if err != nil {
				return nil, err
			}
			list[i] = elem
		}
		return list, nil
	case kindUint:
		return c.ReadUint(f.width)
	case kindInt:
		return c.ReadInt(f.width)
	case kindBool:
		return c.ReadBool()
	case kindByte:
		return c.ReadByte()
	case kindChar:
		b, err := c.ReadByte()
		return string([]byte{b}), err
	case kindBytes:
		return c.ReadBlock(f.width)
	case kindCString:
		return c.ReadCString()
	case kindString:
		return c.ReadString()
	case kindFloat:
		return c.ReadFloat()
	}
	return nil, fmt.Errorf("%w: field %q", ErrUnknownType, f.Name)
}

func badValue(f Field, raw any) error {
	return fmt.Errorf("%w: field %q (%s) cannot encode %T", ErrBadValue, f.Name, f.Type, raw)
}

// asList accepts the shapes callers naturally hand over for nested fields.
func asList(raw any) ([]Value, bool) {
	switch t := raw.(type) {
	case []Value:
		return t, true
	case []map[string]any:
		out := make([]Value, len(t))
		for i, m := range t {
			out[i] = Value(m)
		}
		return out, true
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			switch m := e.(type) {
			case Value:
				out[i] = m
			case map[string]any:
				out[i] = Value(m)
			default:
				return nil, false
			}
		}
		return out, true
	}
	return nil, false
}
