package bitwire

import "errors"

var (
	ErrBitWidth      = errors.New("bit width must be between 1 and 32")
	ErrUnknownType   = errors.New("unknown type descriptor")
	ErrFieldMissing  = errors.New("required field missing")
	ErrDeltaPartial  = errors.New("delta group partially present")
	ErrArrayTooLong  = errors.New("nested array exceeds 4-bit count")
	ErrStringTooLong = errors.New("string exceeds 255 bytes")
	ErrBadValue      = errors.New("value type mismatch")
)
