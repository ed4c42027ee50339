package shares

import (
	"strings"
	"testing"
)

func TestCryptoIDGenerator_LengthAndAlphabet(t *testing.T) {
	gen := NewCryptoIDGenerator(16)

	id, err := gen.NewID()
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 16 {
		t.Fatalf("id length = %d, want 16", len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(base62Alphabet, r) {
			t.Fatalf("id contains %q outside the base62 alphabet", r)
		}
	}
}

func TestCryptoIDGenerator_DefaultLength(t *testing.T) {
	gen := NewCryptoIDGenerator(0)
	id, err := gen.NewID()
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 16 {
		t.Fatalf("id length = %d, want default 16", len(id))
	}
}

func TestCryptoIDGenerator_NoImmediateCollision(t *testing.T) {
	gen := NewCryptoIDGenerator(16)
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id, err := gen.NewID()
		if err != nil {
			t.Fatal(err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = struct{}{}
	}
}
