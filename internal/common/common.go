package common

import "math"

// Mask32 returns a mask covering the low width bits. Width at or above 32
// yields a full mask.
func Mask32(width int) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<width - 1
}

// SignExtend32 reinterprets the low width bits of v as a two's-complement
// value of that width.
func SignExtend32(v uint32, width int) int32 {
	shift := uint(32 - width)
	return int32(v<<shift) >> shift
}

// AsUint32 coerces Go's common integer kinds to uint32 for packing.
func AsUint32(v any) (uint32, bool) {
	switch t := v.(type) {
	case uint32:
		return t, true
	case uint8:
		return uint32(t), true
	case uint16:
		return uint32(t), true
	case uint64:
		if t > math.MaxUint32 {
			return 0, false
		}
		return uint32(t), true
	case uint:
		if uint64(t) > math.MaxUint32 {
			return 0, false
		}
		return uint32(t), true
	case int8:
		if t < 0 {
			return 0, false
		}
		return uint32(t), true
	case int16:
		if t < 0 {
			return 0, false
		}
		return uint32(t), true
	case int32:
		if t < 0 {
			return 0, false
		}
		return uint32(t), true
	case int64:
		if t < 0 || t > math.MaxUint32 {
			return 0, false
		}
		return uint32(t), true
	case int:
		if t < 0 || int64(t) > math.MaxUint32 {
			return 0, false
		}
		return uint32(t), true
	}
	return 0, false
}

// AsInt32 coerces Go's common integer kinds to int32 for packing.
func AsInt32(v any) (int32, bool) {
	switch t := v.(type) {
	case int32:
		return t, true
	case int8:
		return int32(t), true
	case int16:
		return int32(t), true
	case int64:
		if t < math.MinInt32 || t > math.MaxInt32 {
			return 0, false
		}
		return int32(t), true
	case int:
		if int64(t) < math.MinInt32 || int64(t) > math.MaxInt32 {
			return 0, false
		}
		return int32(t), true
	case uint8:
		return int32(t), true
	case uint16:
		return int32(t), true
	case uint32:
		if t > math.MaxInt32 {
			return 0, false
		}
		return int32(t), true
	case uint64:
		if t > math.MaxInt32 {
			return 0, false
		}
		return int32(t), true
	case uint:
		if uint64(t) > math.MaxInt32 {
			return 0, false
		}
		return int32(t), true
	}
	return 0, false
}

// AsFloat64 coerces numeric kinds to float64 for packing.
func AsFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	}
	return 0, false
}
