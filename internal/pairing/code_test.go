package pairing

import "testing"

func TestGenerateCodeKnownAnswer(t *testing.T) {
	got, err := GenerateCode("3861", "D06F5B3577C7A001")
	if err != nil {
		t.Fatal(err)
	}
	want := "0BD8D9D49E66BB17F8BD0367A4E42058"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestGenerateCodeRejectsShortPairID(t *testing.T) {
	if _, err := GenerateCode("1234", "tooshort"); err == nil {
		t.Fatal("expected an error for a pair id that isn't 16 bytes")
	}
}

func TestGenerateCodeDiffersByPasscode(t *testing.T) {
	a, err := GenerateCode("1111", "D06F5B3577C7A001")
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateCode("2222", "D06F5B3577C7A001")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expected different passcodes to produce different hashes")
	}
}
