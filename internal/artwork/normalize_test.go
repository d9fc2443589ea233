package artwork

import "testing"

func TestNormalizeStripsPunctuationAndCase(t *testing.T) {
	cases := map[string]string{
		"Guns N' Roses":  "gunsnroses",
		"AC/DC":          "acdc",
		"  Spaced Out  ": "spacedout",
		"Röyksopp":       "röyksopp",
	}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFingerprintJoinsNormalizedParts(t *testing.T) {
	got := fingerprint("The Beatles", "Abbey Road!")
	want := "thebeatles\x00abbeyroad"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
