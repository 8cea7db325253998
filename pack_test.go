package bitwire

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagSchema(t *testing.T) *Schema {
	t.Helper()
	return mustSchema(t,
		F("id", "u8"),
		F("flag", "bool"),
		Array("tags", mustSchema(t, F("t", "cstring"))),
	)
}

func TestPackWireLayout(t *testing.T) {
	schema := tagSchema(t)
	msg := Value{
		"id":   5,
		"flag": true,
		"tags": []Value{{"t": "a"}, {"t": "bb"}},
	}
	data, err := Marshal(schema, msg)
	require.NoError(t, err)

	// id=5 fills the first byte, flag=1 the next bit, then the 4-bit count 2
	// and the two NUL-terminated entries straddle the rest
	require.Equal(t, []byte{0x05, 0x25, 0x0C, 0x40, 0x4C, 0x0C, 0x00}, data)

	r := NewCursorBytes(data)
	id, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), id)
	flag, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, flag)
	count, err := r.ReadBits(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), count)
	first, err := r.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "a", first)
	second, err := r.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "bb", second)
}

func TestSchemaRoundTrip(t *testing.T) {
	schema := tagSchema(t)
	msg := Value{
		"id":   uint32(5),
		"flag": true,
		"tags": []Value{{"t": "a"}, {"t": "bb"}},
	}
	data, err := Marshal(schema, msg)
	require.NoError(t, err)
	got, err := Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestAllKindsRoundTrip(t *testing.T) {
	schema := mustSchema(t,
		F("u", "u13"),
		F("i", "i12"),
		F("b", "bool"),
		F("by", "byte"),
		F("ch", "char"),
		F("raw", "bytes:3"),
		F("cs", "cstring"),
		F("s", "string"),
		F("f", "float"),
	)
	msg := Value{
		"u":   uint32(4091),
		"i":   int32(-1027),
		"b":   true,
		"by":  byte(0xFE),
		"ch":  "x",
		"raw": []byte{1, 2, 3},
		"cs":  "mid-byte",
		"s":   "aligned",
		"f":   -273.15,
	}
	data, err := Marshal(schema, msg)
	require.NoError(t, err)
	got, err := Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestDeltaGroupsRoundTrip(t *testing.T) {
	build := func() *Schema {
		s := mustSchema(t, F("seq", "u16"), F("x", "i12"), F("y", "i12"))
		s, err := s.WithDeltas([]string{"x", "y"})
		require.NoError(t, err)
		return s
	}

	// all members present
	schema := build()
	full := Value{"seq": uint32(7), "x": int32(-5), "y": int32(9)}
	data, err := Marshal(schema, full)
	require.NoError(t, err)
	got, err := Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, full, got)

	// none present: the group is skipped entirely
	sparse := Value{"seq": uint32(7)}
	data, err = Marshal(schema, sparse)
	require.NoError(t, err)
	assert.Equal(t, 3, len(data)) // 1 presence bit + 16 bits, rounded up
	got, err = Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, sparse, got)
}

func TestDeltaPartialPresenceRejected(t *testing.T) {
	schema := mustSchema(t, F("seq", "u16"), F("x", "i12"), F("y", "i12"))
	schema, err := schema.WithDeltas([]string{"x", "y"})
	require.NoError(t, err)

	_, err = Marshal(schema, Value{"seq": uint32(1), "x": int32(3)})
	require.ErrorIs(t, err, ErrDeltaPartial)
	assert.ErrorContains(t, err, "x, y")
}

func TestDeltaBitOrder(t *testing.T) {
	schema := mustSchema(t, F("a", "u8"), F("b", "u8"), F("c", "u8"))
	schema, err := schema.WithDeltas([]string{"a"}, []string{"b", "c"})
	require.NoError(t, err)

	data, err := Marshal(schema, Value{"b": 1, "c": 2})
	require.NoError(t, err)

	r := NewCursorBytes(data)
	bit, err := r.ReadBits(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), bit, "group 0 absent")
	bit, err = r.ReadBits(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), bit, "group 1 present")
	b, err := r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), b)
}

func TestNestedDeltasPerElement(t *testing.T) {
	elem := mustSchema(t, F("v", "u8"), F("extra", "u8"))
	elem, err := elem.WithDeltas([]string{"extra"})
	require.NoError(t, err)
	schema := mustSchema(t, Array("items", elem))

	// each recursion re-evaluates its own delta groups
	msg := Value{"items": []Value{
		{"v": uint32(1), "extra": uint32(9)},
		{"v": uint32(2)},
		{"v": uint32(3), "extra": uint32(7)},
	}}
	data, err := Marshal(schema, msg)
	require.NoError(t, err)
	got, err := Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestRequiredFieldMissing(t *testing.T) {
	schema := mustSchema(t, F("id", "u8"), F("flag", "bool"))
	_, err := Marshal(schema, Value{"id": 1})
	require.ErrorIs(t, err, ErrFieldMissing)
	assert.ErrorContains(t, err, "flag")
}

func TestArraySizeBoundary(t *testing.T) {
	schema := mustSchema(t, Array("xs", mustSchema(t, F("n", "u4"))))

	elems := func(n int) []Value {
		out := make([]Value, n)
		for i := range out {
			out[i] = Value{"n": uint32(i & 0xF)}
		}
		return out
	}

	// 15 elements fill the 4-bit count exactly
	msg := Value{"xs": elems(15)}
	data, err := Marshal(schema, msg)
	require.NoError(t, err)
	got, err := Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, msg, got)

	// 16 must fail at pack time, not wrap
	_, err = Marshal(schema, Value{"xs": elems(16)})
	require.ErrorIs(t, err, ErrArrayTooLong)
	assert.ErrorContains(t, err, "xs")
}

func TestPackValueTypeMismatch(t *testing.T) {
	schema := mustSchema(t, F("id", "u8"))
	_, err := Marshal(schema, Value{"id": "five"})
	require.ErrorIs(t, err, ErrBadValue)

	schema = mustSchema(t, F("n", "i8"))
	_, err = Marshal(schema, Value{"n": int64(1) << 40})
	require.ErrorIs(t, err, ErrBadValue)

	schema = mustSchema(t, Array("xs", mustSchema(t, F("n", "u4"))))
	_, err = Marshal(schema, Value{"xs": 12})
	require.ErrorIs(t, err, ErrBadValue)

	schema = mustSchema(t, F("raw", "bytes:2"))
	_, err = Marshal(schema, Value{"raw": []byte{1, 2, 3}})
	require.ErrorIs(t, err, ErrBadValue)
}

func TestPackAcceptsPlainGoInts(t *testing.T) {
	schema := mustSchema(t, F("id", "u8"), F("n", "i12"))
	data, err := Marshal(schema, Value{"id": 200, "n": -4})
	require.NoError(t, err)
	got, err := Unmarshal(data, schema)
	require.NoError(t, err)
	assert.Equal(t, uint32(200), got["id"])
	assert.Equal(t, int32(-4), got["n"])
}

func TestNestedListShapes(t *testing.T) {
	schema := mustSchema(t, Array("xs", mustSchema(t, F("n", "u4"))))

	// []map[string]any and []any are accepted alongside []Value
	data, err := Marshal(schema, Value{"xs": []map[string]any{{"n": 3}}})
	require.NoError(t, err)
	got, err := Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, Value{"xs": []Value{{"n": uint32(3)}}}, got)

	data, err = Marshal(schema, Value{"xs": []any{Value{"n": 3}, map[string]any{"n": 4}}})
	require.NoError(t, err)
	got, err = Unmarshal(data, schema)
	require.NoError(t, err)
	require.Equal(t, Value{"xs": []Value{{"n": uint32(3)}, {"n": uint32(4)}}}, got)
}

func TestSchemaQuickRoundTrip(t *testing.T) {
	schema := mustSchema(t, F("id", "u8"), F("flag", "bool"), F("a", "u16"), F("b", "i8"))
	condition := func(id uint8, flag bool, a uint16, b int8) bool {
		msg := Value{"id": uint32(id), "flag": flag, "a": uint32(a), "b": int32(b)}
		data, err := Marshal(schema, msg)
		require.NoError(t, err)
		got, err := Unmarshal(data, schema)
		require.NoError(t, err)
		return assert.ObjectsAreEqual(msg, got)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{}))
}

func FuzzSchemaRoundTrip(f *testing.F) {
	f.Add(uint8(5), true, "hi", int16(-3))
	f.Fuzz(func(t *testing.T, id uint8, flag bool, name string, n int16) {
		if len(name) > 255 {
			name = name[:255]
		}
		schema := mustSchemaF(t, F("id", "u8"), F("flag", "bool"), F("name", "string"), F("n", "i16"))
		msg := Value{"id": uint32(id), "flag": flag, "name": name, "n": int32(n)}
		data, err := Marshal(schema, msg)
		require.NoError(t, err)
		got, err := Unmarshal(data, schema)
		require.NoError(t, err)
		require.Equal(t, msg, got)
	})
}

func mustSchemaF(t *testing.T, fields ...Field) *Schema {
	t.Helper()
	s, err := NewSchema(fields...)
	require.NoError(t, err)
	return s
}
