package dmap

import (
	"bytes"
	"testing"
)

func TestNodeRoundTrip(t *testing.T) {
	n := Node{Tag: "msup", Kind: KindUByte, Int: 255}
	enc, err := Encode(n)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("msup\x00\x00\x00\x01\xff")
	if !bytes.Equal(enc, want) {
		t.Fatalf("encode mismatch: got %x want %x", enc, want)
	}

	dec, consumed, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != 9 {
		t.Fatalf("expected to consume 9 bytes, got %d", consumed)
	}
	if dec.Tag != "msup" || dec.Int != 255 {
		t.Fatalf("unexpected decode: %+v", dec)
	}
	if !dec.Equal(n) {
		t.Fatalf("round-tripped node not equal to original")
	}
}

func TestDatetimeSentinel(t *testing.T) {
	n := Node{Tag: "mstc", Kind: KindDatetime, DatetimeNull: true}
	body, err := n.body()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("\xff\xff\x9d\x90")
	if !bytes.Equal(body, want) {
		t.Fatalf("got %x want %x", body, want)
	}

	sec, isNull, err := decodeDatetime(want)
	if err != nil {
		t.Fatal(err)
	}
	if !isNull {
		t.Fatalf("expected sentinel to decode as null, got sec=%d", sec)
	}
}

func TestVersionByteSwap(t *testing.T) {
	v := Version{3, 0, 1, 0}
	enc := encodeVersion(v)
	want := []byte("\x00\x03\x00\x01")
	if !bytes.Equal(enc, want) {
		t.Fatalf("got %x want %x", enc, want)
	}
	dec, err := decodeVersion(enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec != v {
		t.Fatalf("round trip mismatch: got %+v want %+v", dec, v)
	}
}

func TestLengthInvariant(t *testing.T) {
	cases := []Node{
		{Tag: "minm", Kind: KindString, Str: "Hello, Trillian"},
		{Tag: "miid", Kind: KindUInt, Int: 42},
		{Tag: "canp", Kind: KindMultiUInt, Ints: []int64{1, 25, 50, 75}},
	}
	for _, n := range cases {
		enc, err := Encode(n)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := n.body()
		if len(enc) != 8+len(body) {
			t.Fatalf("length invariant broken for %+v: len(enc)=%d body=%d", n, len(enc), len(body))
		}
		_, consumed, err := Decode(enc)
		if err != nil {
			t.Fatal(err)
		}
		if consumed != len(enc) {
			t.Fatalf("decode consumed %d, expected %d", consumed, len(enc))
		}
	}
}

func TestContainerStringFallback(t *testing.T) {
	// A body that is not a well-formed sequence of nodes should decode as a
	// single string equal to the UTF-8 body.
	body := []byte("not a valid node stream")
	children, str, err := decodeContainer(body)
	if err != nil {
		t.Fatal(err)
	}
	if children != nil {
		t.Fatalf("expected no children, got %v", children)
	}
	if str == nil || *str != string(body) {
		t.Fatalf("expected string fallback %q, got %v", body, str)
	}
}

func TestBuildTreeNested(t *testing.T) {
	spec := NodeSpec{Tag: "msrv", Value: []NodeSpec{
		{Tag: "mstt", Value: 200},
		{Tag: "minm", Value: "Euphony"},
		{Tag: "mpro", Value: Version{2, 0, 6, 0}},
	}}
	node, err := BuildTree(spec)
	if err != nil {
		t.Fatal(err)
	}
	if node.Kind != KindContainer || len(node.Children) != 3 {
		t.Fatalf("unexpected tree: %+v", node)
	}
	enc, err := Encode(node)
	if err != nil {
		t.Fatal(err)
	}
	dec, consumed, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(enc) {
		t.Fatalf("consumed %d of %d bytes", consumed, len(enc))
	}
	if dec.Children[1].Str != "Euphony" {
		t.Fatalf("unexpected child value: %+v", dec.Children[1])
	}
}

func TestBuildTreeUnknownTag(t *testing.T) {
	_, err := BuildTree(NodeSpec{Tag: "zzzz", Value: "x"})
	if err != ErrUnknownTag {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestBuildTreeLateEval(t *testing.T) {
	called := false
	spec := NodeSpec{Tag: "mstc", Value: func() interface{} {
		called = true
		return 0
	}}
	if _, err := BuildTree(spec); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("expected late-bound thunk to be invoked during BuildTree")
	}
}

func TestNumericOverflow(t *testing.T) {
	_, err := coerceScalar("miid", KindUByte, 1000)
	if err == nil {
		t.Fatal("expected range error for overflowing UByte value")
	}
}
