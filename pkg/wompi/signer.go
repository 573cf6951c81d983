// Package wompi holds the payment gateway contract: outbound integrity
// signatures and verification of inbound event envelopes.
package wompi

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Signer produces the integrity signature the checkout widget forwards to the
// gateway.
type Signer struct {
	integritySecret string
}

func NewSigner(integritySecret string) *Signer {
	return &Signer{integritySecret: integritySecret}
}

// IntegritySignature returns hex(SHA256(reference + amountInCents + currency + secret)).
func (s *Signer) IntegritySignature(reference string, amountInCents int64, currency string) string {
	return digest(reference, strconv.FormatInt(amountInCents, 10), currency, s.integritySecret)
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
