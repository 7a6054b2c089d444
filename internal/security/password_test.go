package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("Abcdefg1!2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Abcdefg1!2" {
		t.Fatal("hash must not equal the raw password")
	}
	if !h.Verify("Abcdefg1!2", hash) {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify("Abcdefg1!3", hash) {
		t.Fatal("expected mismatched password to fail verification")
	}
}

func TestPasswordHashIsSalted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("Abcdefg1!2")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	second, err := h.Hash("Abcdefg1!2")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if first == second {
		t.Fatal("expected per-call salting to produce distinct hashes")
	}
	if !h.Verify("Abcdefg1!2", first) || !h.Verify("Abcdefg1!2", second) {
		t.Fatal("both hashes must verify against the original password")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if h.Verify("Abcdefg1!2", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash must not verify")
	}
	if h.Verify("Abcdefg1!2", "") {
		t.Fatal("empty hash must not verify")
	}
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	if h := NewPasswordHasher(99); h.Cost != bcrypt.DefaultCost {
		t.Fatalf("expected out-of-range cost to fall back to default, got %d", h.Cost)
	}
	if h := NewPasswordHasher(bcrypt.MinCost); h.Cost != bcrypt.MinCost {
		t.Fatalf("expected valid cost kept, got %d", h.Cost)
	}
}

func TestValidatePasswordFormat(t *testing.T) {
	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "allClassesTenChars", password: "Abcdefg1!2", want: true},
		{name: "tooShort", password: "Short1!Aa", want: false},
		{name: "noDigit", password: "Abcdefghij!", want: false},
		{name: "noSymbol", password: "Abcdefgh12", want: false},
		{name: "containsSpace", password: "Abcdefg 12!", want: false},
		{name: "noUppercase", password: "abcdefg1!2x", want: false},
		{name: "noLowercase", password: "ABCDEFG1!2X", want: false},
		{name: "tooLong", password: "Abcdefg1!2Abcdefg1!2Abcdefg1!2X", want: false},
		{name: "thirtyCharsExact", password: "Abcdefg1!2Abcdefg1!2Abcdefg1!2", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidatePasswordFormat(tc.password); got != tc.want {
				t.Fatalf("ValidatePasswordFormat(%q)=%v want=%v", tc.password, got, tc.want)
			}
		})
	}
}

func TestValidateEmailFormat(t *testing.T) {
	cases := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "simple", email: "a@b.co", want: true},
		{name: "trimmed", email: "  a@b.co  ", want: true},
		{name: "subdomain", email: "user@mail.example.com", want: true},
		{name: "noDot", email: "a@b", want: false},
		{name: "embeddedSpace", email: "a b@c.com", want: false},
		{name: "missingLocal", email: "@b.com", want: false},
		{name: "missingDomain", email: "a@", want: false},
		{name: "dotAtDomainStart", email: "a@.com", want: false},
		{name: "dotAtDomainEnd", email: "a@com.", want: false},
		{name: "twoAts", email: "a@b@c.com", want: false},
		{name: "empty", email: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateEmailFormat(tc.email); got != tc.want {
				t.Fatalf("ValidateEmailFormat(%q)=%v want=%v", tc.email, got, tc.want)
			}
		})
	}
}
