package security

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const passwordSymbols = "@$!%*?&#^()_-+=[]{}|;:,.<>"

type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{Cost: cost}
}

// Hash salts per call, so equal inputs produce distinct hashes.
func (h *PasswordHasher) Hash(raw string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(raw), h.Cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify returns false for a mismatch or a structurally invalid hash.
func (h *PasswordHasher) Verify(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// ValidatePasswordFormat requires 10-30 characters with at least one
// uppercase letter, one lowercase letter, one digit and one symbol from
// passwordSymbols, and no whitespace.
func ValidatePasswordFormat(raw string) bool {
	runes := []rune(raw)
	if len(runes) < 10 || len(runes) > 30 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range runes {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// ValidateEmailFormat accepts the trimmed input iff it is local@domain with
// no whitespace and a dot strictly inside the domain.
func ValidateEmailFormat(raw string) bool {
	email := strings.TrimSpace(raw)
	if email == "" {
		return false
	}
	for _, r := range email {
		if unicode.IsSpace(r) {
			return false
		}
	}
	at := strings.Index(email, "@")
	if at < 1 {
		return false
	}
	domain := email[at+1:]
	if strings.Contains(domain, "@") {
		return false
	}
	for i := 1; i < len(domain)-1; i++ {
		if domain[i] == '.' {
			return true
		}
	}
	return false
}
