package helpers

import (
	"strings"
	"testing"
)

func TestRandomIntBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := RandomInt(1000)
		if n < 1 || n > 1000 {
			t.Fatalf("draw %d out of [1,1000]", n)
		}
	}
	if RandomInt(0) != 1 {
		t.Fatal("non-positive max falls back to 1")
	}
}

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode("alice@example.com")
	if !strings.HasPrefix(code, "ALI-") {
		t.Fatalf("want ALI- prefix, got %s", code)
	}
	if len(code) != 9 {
		t.Fatalf("want XXX-XXXXX shape, got %s", code)
	}

	short := GenerateReferralCode("ab")
	if !strings.HasPrefix(short, "ABX-") {
		t.Fatalf("short identities are padded, got %s", short)
	}
}

func TestGenerateGiftCode(t *testing.T) {
	code := GenerateGiftCode("promo1")
	parts := strings.Split(code, "-")
	if len(parts) != 4 || parts[0] != "PROMO1" {
		t.Fatalf("want PROMO1-XXXX-XXXX-XXXX, got %s", code)
	}
	for _, p := range parts[1:] {
		if len(p) != 4 {
			t.Fatalf("segment %q must be 4 chars in %s", p, code)
		}
	}
}

func TestGenerateCouponCode(t *testing.T) {
	code := GenerateCouponCode()
	if !strings.HasPrefix(code, "VAULT-") || len(code) != 12 {
		t.Fatalf("want VAULT-XXXXXX, got %s", code)
	}
}

func TestMaskIdentity(t *testing.T) {
	cases := []struct{ in, want string }{
		{"alice@example.com", "ali***"},
		{"bob@example.com", "bob***"},
		{"al@example.com", "al***"},
		{"plainuser", "pla***"},
	}
	for _, tc := range cases {
		if got := MaskIdentity(tc.in); got != tc.want {
			t.Errorf("MaskIdentity(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}
