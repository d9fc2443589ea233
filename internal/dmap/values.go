package dmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrUnknownTag is returned by BuildTree when a tag is absent from the
// registry.
var ErrUnknownTag = errors.New("dmap: unknown tag")

// ErrInvalidValue is returned when a value cannot be encoded or decoded for
// its kind: a short body, a coercion failure, or a range violation.
type ErrInvalidValue struct {
	Reason string
}

func (e *ErrInvalidValue) Error() string {
	return "dmap: invalid value: " + e.Reason
}

func invalidValue(format string, args ...interface{}) error {
	return &ErrInvalidValue{Reason: fmt.Sprintf(format, args...)}
}

// datetimeNullSentinel is the "unset/null" encoding for DatetimeValue.
const datetimeNullSentinel = uint32(0xFFFF9D90)

// numericBounds returns the inclusive range representable by kind, and the
// byte width of its encoding. Only numeric (non-multi, non-composite) kinds
// are valid arguments.
func numericBounds(kind Kind) (min, max int64, width int, signed bool, ok bool) {
	switch kind {
	case KindUByte:
		return 0, 1<<8 - 1, 1, false, true
	case KindByte:
		return -1 << 7, 1<<7 - 1, 1, true, true
	case KindUShort:
		return 0, 1<<16 - 1, 2, false, true
	case KindShort:
		return -1 << 15, 1<<15 - 1, 2, true, true
	case KindUInt:
		return 0, 1<<32 - 1, 4, false, true
	case KindInt:
		return -1 << 31, 1<<31 - 1, 4, true, true
	case KindULong:
		// max(int64) stands in for 2^64-1; values this large never occur in
		// practice for item ids/persistent ids and int64 covers them.
		return 0, 1<<63 - 1, 8, false, true
	case KindLong:
		return -1 << 63, 1<<63 - 1, 8, true, true
	default:
		return 0, 0, 0, false, false
	}
}

// encodeNumeric encodes value (as int64) using the fixed-width big-endian
// rule for kind, failing with ErrInvalidValue on overflow.
func encodeNumeric(kind Kind, value int64) ([]byte, error) {
	min, max, width, _, ok := numericBounds(kind)
	if !ok {
		return nil, invalidValue("kind %v is not numeric", kind)
	}
	if value < min || value > max {
		return nil, invalidValue("%d out of range [%d, %d] for kind %v", value, min, max, kind)
	}
	buf := make([]byte, width)
	u := uint64(value)
	switch width {
	case 1:
		buf[0] = byte(u)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(u))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(u))
	case 8:
		binary.BigEndian.PutUint64(buf, uint64(u))
	}
	return buf, nil
}

// decodeNumeric reverses encodeNumeric, sign-extending signed kinds.
func decodeNumeric(kind Kind, body []byte) (int64, error) {
	_, _, width, signed, ok := numericBounds(kind)
	if !ok {
		return 0, invalidValue("kind %v is not numeric", kind)
	}
	if len(body) != width {
		return 0, invalidValue("expected %d bytes for kind %v, got %d", width, kind, len(body))
	}
	var u uint64
	switch width {
	case 1:
		u = uint64(body[0])
	case 2:
		u = uint64(binary.BigEndian.Uint16(body))
	case 4:
		u = uint64(binary.BigEndian.Uint32(body))
	case 8:
		u = binary.BigEndian.Uint64(body)
	}
	if !signed {
		return int64(u), nil
	}
	switch width {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// encodeMultiInt encodes n concatenated 4-byte integers.
func encodeMultiInt(values []int64) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint32(buf[i*4:], uint32(v))
	}
	return buf
}

func decodeMultiInt(body []byte) ([]int64, error) {
	if len(body)%4 != 0 {
		return nil, invalidValue("multi-int length %d is not a multiple of 4", len(body))
	}
	out := make([]int64, len(body)/4)
	for i := range out {
		out[i] = int64(int32(binary.BigEndian.Uint32(body[i*4:])))
	}
	return out, nil
}

func decodeMultiUInt(body []byte) ([]int64, error) {
	if len(body)%4 != 0 {
		return nil, invalidValue("multi-int length %d is not a multiple of 4", len(body))
	}
	out := make([]int64, len(body)/4)
	for i := range out {
		out[i] = int64(binary.BigEndian.Uint32(body[i*4:]))
	}
	return out, nil
}

// Version is a dotted 4-tuple version number (e.g. 3.0.2.0).
type Version [4]byte

// encodeVersion byte-swaps within each 16-bit half: (a,b,c,d) -> b,a,d,c.
func encodeVersion(v Version) []byte {
	return []byte{v[1], v[0], v[3], v[2]}
}

func decodeVersion(body []byte) (Version, error) {
	if len(body) != 4 {
		return Version{}, invalidValue("version requires 4 bytes, got %d", len(body))
	}
	return Version{body[1], body[0], body[3], body[2]}, nil
}

// encodeDatetime encodes sec as signed 32-bit UNIX seconds, or the sentinel
// if isNull is true.
func encodeDatetime(sec int32, isNull bool) []byte {
	if isNull {
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, datetimeNullSentinel)
		return buf
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(sec))
	return buf
}

// decodeDatetime reports the stored seconds and whether it is the null
// sentinel.
func decodeDatetime(body []byte) (sec int32, isNull bool, err error) {
	if len(body) != 4 {
		return 0, false, invalidValue("datetime requires 4 bytes, got %d", len(body))
	}
	u := binary.BigEndian.Uint32(body)
	if u == datetimeNullSentinel {
		return 0, true, nil
	}
	return int32(u), false, nil
}

func encodeString(s string) []byte {
	return []byte(s)
}

func decodeString(body []byte) (string, error) {
	if !utf8.Valid(body) {
		return string(body), nil // tolerate malformed UTF-8 rather than fail hard
	}
	return string(body), nil
}
