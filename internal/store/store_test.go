package store

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "euphony.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPairingIsIdempotent(t *testing.T) {
	s := openTest(t)

	has, err := s.HasPairing(42)
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Fatal("expected no pairing recorded yet")
	}

	if err := s.AddPairing(42); err != nil {
		t.Fatal(err)
	}
	if err := s.AddPairing(42); err != nil {
		t.Fatalf("second AddPairing should be a no-op, got error: %v", err)
	}

	has, err = s.HasPairing(42)
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Fatal("expected pairing to be recorded")
	}
}

func TestArtworkRoundTrip(t *testing.T) {
	s := openTest(t)

	_, ok, err := s.GetArtwork("missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no cached artwork for an unknown fingerprint")
	}

	png := []byte{0x89, 'P', 'N', 'G'}
	if err := s.PutArtwork("beatles/abbey road", png); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.GetArtwork("beatles/abbey road")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || string(got) != string(png) {
		t.Fatalf("got %v, ok=%v", got, ok)
	}
}
