package dmap

import (
	"bytes"
	"encoding/binary"
)

// Node is a decoded (tag, value) pair. Exactly one of the value fields below
// is meaningful, selected by Kind.
type Node struct {
	Tag  Tag
	Kind Kind

	Int          int64   // u8/i8/u16/i16/u32/i32/u64/i64
	DatetimeSec  int32   // valid when Kind == KindDatetime && !DatetimeNull
	DatetimeNull bool
	Ints         []int64 // multi-i32 / multi-u32
	Str          string
	Bin          []byte
	Version      Version
	Children     []Node  // container, when not a string fallback
	ContainerStr *string // non-nil when a container decoded as a bare string
}

// Equal reports whether two nodes are deeply equal: same tag and same value.
func (n Node) Equal(other Node) bool {
	if n.Tag != other.Tag || n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case KindUByte, KindByte, KindUShort, KindShort, KindUInt, KindInt, KindULong, KindLong:
		return n.Int == other.Int
	case KindDatetime:
		return n.DatetimeNull == other.DatetimeNull && (n.DatetimeNull || n.DatetimeSec == other.DatetimeSec)
	case KindMultiInt, KindMultiUInt:
		if len(n.Ints) != len(other.Ints) {
			return false
		}
		for i := range n.Ints {
			if n.Ints[i] != other.Ints[i] {
				return false
			}
		}
		return true
	case KindVersion:
		return n.Version == other.Version
	case KindString:
		return n.Str == other.Str
	case KindBinary:
		return bytes.Equal(n.Bin, other.Bin)
	case KindContainer:
		if n.ContainerStr != nil || other.ContainerStr != nil {
			if n.ContainerStr == nil || other.ContainerStr == nil {
				return false
			}
			return *n.ContainerStr == *other.ContainerStr
		}
		if len(n.Children) != len(other.Children) {
			return false
		}
		for i := range n.Children {
			if !n.Children[i].Equal(other.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// body returns the serialized value payload of the node, without the
// tag/length header.
func (n Node) body() ([]byte, error) {
	switch n.Kind {
	case KindUByte, KindByte, KindUShort, KindShort, KindUInt, KindInt, KindULong, KindLong:
		return encodeNumeric(n.Kind, n.Int)
	case KindDatetime:
		return encodeDatetime(n.DatetimeSec, n.DatetimeNull), nil
	case KindMultiInt, KindMultiUInt:
		return encodeMultiInt(n.Ints), nil
	case KindVersion:
		return encodeVersion(n.Version), nil
	case KindString:
		return encodeString(n.Str), nil
	case KindBinary:
		return n.Bin, nil
	case KindContainer:
		if n.ContainerStr != nil {
			return encodeString(*n.ContainerStr), nil
		}
		var buf bytes.Buffer
		for _, child := range n.Children {
			enc, err := Encode(child)
			if err != nil {
				return nil, err
			}
			buf.Write(enc)
		}
		return buf.Bytes(), nil
	default:
		return nil, invalidValue("unknown kind %v", n.Kind)
	}
}

// Encode serializes a node to its wire form: tag[4] | length[u32 BE] | body.
func Encode(n Node) ([]byte, error) {
	body, err := n.body()
	if err != nil {
		return nil, err
	}
	if len(n.Tag) != 4 {
		return nil, invalidValue("tag %q must be exactly 4 bytes", n.Tag)
	}
	out := make([]byte, 8+len(body))
	copy(out[0:4], n.Tag)
	binary.BigEndian.PutUint32(out[4:8], uint32(len(body)))
	copy(out[8:], body)
	return out, nil
}

// Decode parses a single node from the front of data, returning the node and
// the number of bytes consumed.
func Decode(data []byte) (Node, int, error) {
	if len(data) < 8 {
		return Node{}, 0, invalidValue("not enough data to read tag header (%d bytes)", len(data))
	}
	tag := Tag(data[0:4])
	size := binary.BigEndian.Uint32(data[4:8])
	body := data[8:]
	if uint32(len(body)) < size {
		return Node{}, 0, invalidValue("not enough data to decode %q (%d/%d bytes)", tag, len(body), size)
	}
	body = body[:size]

	info, _ := Lookup(tag)
	n := Node{Tag: tag, Kind: info.Kind}

	switch info.Kind {
	case KindUByte, KindByte, KindUShort, KindShort, KindUInt, KindInt, KindULong, KindLong:
		v, err := decodeNumeric(info.Kind, body)
		if err != nil {
			return Node{}, 0, err
		}
		n.Int = v
	case KindDatetime:
		sec, isNull, err := decodeDatetime(body)
		if err != nil {
			return Node{}, 0, err
		}
		n.DatetimeSec, n.DatetimeNull = sec, isNull
	case KindMultiInt:
		v, err := decodeMultiInt(body)
		if err != nil {
			return Node{}, 0, err
		}
		n.Ints = v
	case KindMultiUInt:
		v, err := decodeMultiUInt(body)
		if err != nil {
			return Node{}, 0, err
		}
		n.Ints = v
	case KindVersion:
		v, err := decodeVersion(body)
		if err != nil {
			return Node{}, 0, err
		}
		n.Version = v
	case KindString:
		s, err := decodeString(body)
		if err != nil {
			return Node{}, 0, err
		}
		n.Str = s
	case KindContainer:
		children, str, err := decodeContainer(body)
		if err != nil {
			return Node{}, 0, err
		}
		n.Children = children
		n.ContainerStr = str
	case KindBinary:
		n.Bin = append([]byte(nil), body...)
	default:
		n.Kind = KindBinary
		n.Bin = append([]byte(nil), body...)
	}

	return n, 8 + int(size), nil
}

// decodeContainer repeatedly attempts to decode child nodes; on the first
// structural failure (including an empty body producing zero children from
// non-empty input) it re-interprets the entire body as a string. This is the
// official disambiguation rule for the ambiguous container encoding.
func decodeContainer(body []byte) ([]Node, *string, error) {
	var children []Node
	pos := 0
	for pos < len(body) {
		child, n, err := Decode(body[pos:])
		if err != nil {
			s, decErr := decodeString(body)
			if decErr != nil {
				return nil, nil, decErr
			}
			return nil, &s, nil
		}
		children = append(children, child)
		pos += n
	}
	return children, nil, nil
}

// NodeSpec describes a node to be built by BuildTree: a tag paired with
// either a scalar value, a slice of NodeSpec (a container's children), or a
// func() interface{} for late-bound values (e.g. the current time).
type NodeSpec struct {
	Tag   Tag
	Value interface{}
}

// BuildTree materializes a Node from a NodeSpec, consulting the tag registry
// to determine each tag's kind and coercing the supplied value accordingly.
func BuildTree(spec NodeSpec) (Node, error) {
	info, ok := Lookup(spec.Tag)
	if !ok {
		return Node{}, ErrUnknownTag
	}

	value := spec.Value
	if thunk, isThunk := value.(func() interface{}); isThunk {
		value = thunk()
	}

	if info.Kind == KindContainer {
		if children, isList := value.([]NodeSpec); isList {
			built := make([]Node, 0, len(children))
			for _, child := range children {
				childNode, err := BuildTree(child)
				if err != nil {
					return Node{}, err
				}
				built = append(built, childNode)
			}
			return Node{Tag: spec.Tag, Kind: KindContainer, Children: built}, nil
		}
		s, err := coerceString(value)
		if err != nil {
			return Node{}, err
		}
		return Node{Tag: spec.Tag, Kind: KindContainer, ContainerStr: &s}, nil
	}

	return coerceScalar(spec.Tag, info.Kind, value)
}

func coerceScalar(tag Tag, kind Kind, value interface{}) (Node, error) {
	switch kind {
	case KindUByte, KindByte, KindUShort, KindShort, KindUInt, KindInt, KindULong, KindLong:
		i, err := coerceInt(value)
		if err != nil {
			return Node{}, err
		}
		if _, _, _, _, ok := numericBounds(kind); !ok {
			return Node{}, invalidValue("kind %v is not numeric", kind)
		}
		if min, max, _, _, _ := numericBounds(kind); i < min || i > max {
			return Node{}, invalidValue("%d out of range for tag %q", i, tag)
		}
		return Node{Tag: tag, Kind: kind, Int: i}, nil
	case KindDatetime:
		switch v := value.(type) {
		case nil:
			return Node{Tag: tag, Kind: kind, DatetimeNull: true}, nil
		default:
			sec, err := coerceInt(v)
			if err != nil {
				return Node{}, err
			}
			return Node{Tag: tag, Kind: kind, DatetimeSec: int32(sec)}, nil
		}
	case KindMultiInt, KindMultiUInt:
		ints, err := coerceIntSlice(value)
		if err != nil {
			return Node{}, err
		}
		return Node{Tag: tag, Kind: kind, Ints: ints}, nil
	case KindVersion:
		v, err := coerceVersion(value)
		if err != nil {
			return Node{}, err
		}
		return Node{Tag: tag, Kind: kind, Version: v}, nil
	case KindString:
		s, err := coerceString(value)
		if err != nil {
			return Node{}, err
		}
		return Node{Tag: tag, Kind: kind, Str: s}, nil
	case KindBinary:
		switch v := value.(type) {
		case []byte:
			return Node{Tag: tag, Kind: kind, Bin: v}, nil
		case string:
			return Node{Tag: tag, Kind: kind, Bin: []byte(v)}, nil
		default:
			return Node{}, invalidValue("cannot coerce %T to binary for tag %q", value, tag)
		}
	default:
		return Node{}, invalidValue("unsupported kind %v for tag %q", kind, tag)
	}
}

func coerceInt(value interface{}) (int64, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	default:
		return 0, invalidValue("cannot coerce %T to an integer", value)
	}
}

func coerceIntSlice(value interface{}) ([]int64, error) {
	switch v := value.(type) {
	case []int64:
		return v, nil
	case []int:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out, nil
	case []uint32:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out, nil
	default:
		return nil, invalidValue("cannot coerce %T to a multi-int", value)
	}
}

func coerceVersion(value interface{}) (Version, error) {
	switch v := value.(type) {
	case Version:
		return v, nil
	case [4]int:
		return Version{byte(v[0]), byte(v[1]), byte(v[2]), byte(v[3])}, nil
	case [4]byte:
		return Version(v), nil
	default:
		return Version{}, invalidValue("cannot coerce %T to a version", value)
	}
}

func coerceString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmtStringer:
		return v.String(), nil
	default:
		return "", invalidValue("cannot coerce %T to a string", value)
	}
}

// fmtStringer avoids importing fmt just for the Stringer interface name.
type fmtStringer interface {
	String() string
}
