package query

import (
	"reflect"
	"sort"
	"testing"
)

// fakeIndex is a minimal in-memory Index over a slice of property maps, one
// per position, used to exercise Eval without depending on internal/library.
type fakeIndex struct {
	rows []map[string]interface{}
}

func (f *fakeIndex) Lookup(property string, value interface{}) IDSet {
	out := IDSet{}
	for i, row := range f.rows {
		v, ok := row[property]
		if !ok {
			continue
		}
		if v == value {
			out[i] = struct{}{}
		}
	}
	return out
}

func (f *fakeIndex) Scan(property string, match func(string) bool) IDSet {
	out := IDSet{}
	for i, row := range f.rows {
		v, ok := row[property].(string)
		if !ok {
			continue
		}
		if match(v) {
			out[i] = struct{}{}
		}
	}
	return out
}

func (f *fakeIndex) All() IDSet {
	out := make(IDSet, len(f.rows))
	for i := range f.rows {
		out[i] = struct{}{}
	}
	return out
}

func sorted(s IDSet) []int {
	ids := s.Slice()
	sort.Ints(ids)
	return ids
}

func testIndex() *fakeIndex {
	return &fakeIndex{rows: []map[string]interface{}{
		{"dmap.itemname": "Alpha", "daap.songgenre": "Rock"},
		{"dmap.itemname": "Beta", "daap.songgenre": "Jazz"},
		{"dmap.itemname": "Beta Two", "daap.songgenre": "Rock"},
		{"dmap.itemname": "Gamma", "daap.songgenre": "Jazz"},
	}}
}

func TestEqualsExactString(t *testing.T) {
	expr, err := Parse("'dmap.itemname:Beta'")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestEqualsMissReturnsEmptySet(t *testing.T) {
	expr, err := Parse("'dmap.itemname:Nonexistent'")
	if err != nil {
		t.Fatal(err)
	}
	got := expr.Eval(testIndex())
	if len(got) != 0 {
		t.Fatalf("expected empty set for non-matching equals, got %v", got)
	}
}

func TestOrGroup(t *testing.T) {
	expr, err := Parse("('daap.songgenre:Jazz','dmap.itemname:Alpha')")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{0, 1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestAndGroup(t *testing.T) {
	expr, err := Parse("('daap.songgenre:Rock'+'dmap.itemname:Beta Two')")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNotEquals(t *testing.T) {
	expr, err := Parse("'daap.songgenre!:Jazz'")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWildcardContains(t *testing.T) {
	expr, err := Parse("'dmap.itemname:*eta*'")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWildcardPrefix(t *testing.T) {
	expr, err := Parse("'dmap.itemname:Beta*'")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWildcardSuffix(t *testing.T) {
	expr, err := Parse("'dmap.itemname:*Two'")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestIntegerValue(t *testing.T) {
	idx := &fakeIndex{rows: []map[string]interface{}{
		{"dmap.itemid": int64(10)},
		{"dmap.itemid": int64(11)},
	}}
	expr, err := Parse("'dmap.itemid:11'")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(idx))
	want := []int{1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestHexIntegerValue(t *testing.T) {
	idx := &fakeIndex{rows: []map[string]interface{}{
		{"dmap.itemid": int64(255)},
	}}
	expr, err := Parse("'dmap.itemid:ff'")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(idx))
	want := []int{0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNestedGroup(t *testing.T) {
	expr, err := Parse("(('dmap.itemname:Alpha'+'daap.songgenre:Rock'),'dmap.itemname:Gamma')")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{0, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestLiteralSpaceBecomesAnd(t *testing.T) {
	// A raw space in the query string (as opposed to inside a quoted value)
	// is equivalent to '+': it still must parse as AND between two parameters.
	expr, err := Parse("('dmap.itemname:Alpha' 'daap.songgenre:Rock')")
	if err != nil {
		t.Fatal(err)
	}
	got := sorted(expr.Eval(testIndex()))
	want := []int{0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []string{
		"",
		"(",
		"'noop'",
		"'dmap.itemname:x'+",
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Fatalf("expected error for query %q", c)
		}
	}
}
