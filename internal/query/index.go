package query

// IDSet is a set of positions into a collection, as produced and consumed by
// Expr.Eval. Positions are whatever stable identifier the Index
// implementation uses internally (library.IndexedCollection uses insertion
// order).
type IDSet map[int]struct{}

// NewIDSet builds an IDSet from a slice of positions.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Slice returns the set's members in unspecified order.
func (s IDSet) Slice() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// Intersect returns the set of positions present in both a and b.
func Intersect(a, b IDSet) IDSet {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(IDSet, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Union returns the set of positions present in either a or b.
func Union(a, b IDSet) IDSet {
	out := make(IDSet, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

// Diff returns the positions in a that are not in b.
func Diff(a, b IDSet) IDSet {
	out := make(IDSet, len(a))
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Index is the read side of a collection that Expr.Eval needs: exact lookup
// by property value, a full-scan predicate match (for wildcards), and the
// universe of all positions (for negation).
//
// value passed to Lookup is either an int64 or a string, matching the type
// Parse produces for a literal. Implementations that store a property as an
// integer must compare against the int64 case; all others compare as
// strings.
type Index interface {
	Lookup(property string, value interface{}) IDSet
	Scan(property string, match func(value string) bool) IDSet
	All() IDSet
}
