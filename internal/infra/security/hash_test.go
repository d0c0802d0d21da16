package security

import (
	"strings"
	"testing"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	encoded, err := HashPassword("Sup3r!SecurePass#7890")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.Contains(encoded, ":") {
		t.Fatalf("expected salt:hash encoding, got %q", encoded)
	}

	ok, err := VerifyPassword("Sup3r!SecurePass#7890", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify against its own hash")
	}

	ok, err = VerifyPassword("wrong-password", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashPassword_SaltsAreUnique(t *testing.T) {
	first, err := HashPassword("Sup3r!SecurePass#7890")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("Sup3r!SecurePass#7890")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ by salt")
	}
}

func TestVerifyPassword_RejectsGarbageEncoding(t *testing.T) {
	if _, err := VerifyPassword("whatever", "not-a-valid-encoding"); err == nil {
		t.Fatal("expected error for malformed encoded hash")
	}
}

func TestGenerateNumericCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatalf("GenerateNumericCode returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit %q in code %q", r, code)
			}
		}
		seen[code] = true
	}
	// 50 six digit draws colliding down to a handful of values would
	// point at a broken generator.
	if len(seen) < 10 {
		t.Fatalf("suspiciously few distinct codes: %d", len(seen))
	}
}
