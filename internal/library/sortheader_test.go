package library

import "testing"

func TestGetInitialStripsArticles(t *testing.T) {
	cases := map[string]string{
		"The Beatles":      "B",
		"An Album":         "A",
		"A Perfect Circle": "P",
		"Radiohead":        "R",
		"2econd":           "ZZZ",
		"...":              "",
	}
	for name, want := range cases {
		if got := GetInitial(name); got != want {
			t.Errorf("GetInitial(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestBuildSortHeaders(t *testing.T) {
	names := []string{"The Beatles", "Boards of Canada", "2econd Coming", "ABBA"}
	headers := BuildSortHeaders(names)

	var foundDigit, foundB, foundA bool
	for _, h := range headers {
		switch h.Char {
		case '0':
			foundDigit = true
			if h.Count != 1 {
				t.Errorf("expected 1 entry in digit bucket, got %d", h.Count)
			}
		case 'B':
			foundB = true
			if h.Count != 2 {
				t.Errorf("expected 2 entries (Beatles, Boards) in B bucket, got %d", h.Count)
			}
		case 'A':
			foundA = true
		}
	}
	if !foundDigit || !foundB || !foundA {
		t.Fatalf("missing expected buckets: %+v", headers)
	}
}

func TestBuildSortHeadersTable(t *testing.T) {
	names := []string{"The Ford", "Agrajag", "Trillian", "Arthur", "Zaphod", "Marvin", "2 Zaphods"}
	want := []SortHeader{
		{'A', 0, 2},
		{'F', 2, 1},
		{'M', 3, 1},
		{'T', 4, 1},
		{'Z', 5, 1},
		{'0', 6, 1},
	}
	got := BuildSortHeaders(names)
	if len(got) != len(want) {
		t.Fatalf("got %d headers, want %d: %+v", len(got), len(want), got)
	}
	total := 0
	for i, h := range got {
		if h != want[i] {
			t.Errorf("header %d: got %+v want %+v", i, h, want[i])
		}
		if h.Index != total {
			t.Errorf("header %d: index %d is not the cumulative count %d", i, h.Index, total)
		}
		total += h.Count
	}
	if total != len(names) {
		t.Errorf("header counts sum to %d, want %d", total, len(names))
	}
}

func TestSortByInitialOrdersAcrossBuckets(t *testing.T) {
	names := []string{"Zebra", "2econd Coming", "Apple"}
	sorted := SortByInitial(names)
	if sorted[0] != "Apple" || sorted[1] != "Zebra" || sorted[2] != "2econd Coming" {
		t.Fatalf("unexpected sort order: %v", sorted)
	}
}
