package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const verificationTokenBytes = 32

// VerificationToken is a transient value pair attached to a user at
// registration or reissue. It is never stored outside the user record.
type VerificationToken struct {
	Token     string
	ExpiresAt time.Time
}

// NewVerificationToken draws 256 bits from the CSPRNG and encodes them as a
// fixed-length hex string. It performs no I/O beyond the entropy read.
func NewVerificationToken(ttl time.Duration) (VerificationToken, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return VerificationToken{}, fmt.Errorf("generate verification token: %w", err)
	}
	return VerificationToken{
		Token:     hex.EncodeToString(b),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}
