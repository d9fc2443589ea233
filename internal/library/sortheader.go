package library

import (
	"sort"
	"strings"
)

// sortLast is the synthetic initial assigned to names that sort after the
// alphabet: those whose first character after prefix-stripping is a digit.
const sortLast = "ZZZ"

// sortDigit is the character actually displayed for the sortLast bucket.
const sortDigit = '0'

var articlePrefixes = []string{"THE ", "AN ", "A "}

// GetInitial computes the sort-header bucket for name: strip a leading
// article, strip leading punctuation, then classify the first remaining
// rune as a letter (its own uppercase initial), a digit (folds into the
// synthetic "last" bucket) or nothing (empty bucket, sorts first).
func GetInitial(name string) string {
	upper := strings.ToUpper(name)
	for _, prefix := range articlePrefixes {
		if strings.HasPrefix(upper, prefix) {
			upper = upper[len(prefix):]
			break
		}
	}
	upper = strings.TrimLeft(upper, " \t\n\r!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~")
	if upper == "" {
		return ""
	}
	r := rune(upper[0])
	switch {
	case r >= '0' && r <= '9':
		return sortLast
	case r >= 'A' && r <= 'Z':
		return string(r)
	default:
		return ""
	}
}

// SortByInitial sorts names the way the server orders artists/albums for
// display: by (initial, name) so all names sharing a bucket sort together
// and alphabetically within it.
func SortByInitial(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		ki := GetInitial(out[i]) + " " + out[i]
		kj := GetInitial(out[j]) + " " + out[j]
		return ki < kj
	})
	return out
}

// SortHeader is one entry of a computed sort-header table: the displayed
// character, the position of its first member in the sorted list, and how
// many names share it.
type SortHeader struct {
	Char  byte
	Index int
	Count int
}

// BuildSortHeaders sorts names by initial and returns one SortHeader per
// distinct initial, in display order: letters alphabetically, the digit
// bucket (displayed as '0') after them, and the bucket of names with no
// leading letter or digit (also displayed as '0') before them.
func BuildSortHeaders(names []string) []SortHeader {
	sorted := SortByInitial(names)

	counts := map[string]*SortHeader{}
	order := []string{}
	for i, name := range sorted {
		initial := GetInitial(name)
		if h, ok := counts[initial]; ok {
			h.Count++
			continue
		}
		char := byte(sortDigit)
		if initial != sortLast && initial != "" {
			char = initial[0]
		}
		counts[initial] = &SortHeader{Char: char, Index: i, Count: 1}
		order = append(order, initial)
	}

	sort.Strings(order)
	out := make([]SortHeader, 0, len(order))
	for _, initial := range order {
		out = append(out, *counts[initial])
	}
	return out
}
