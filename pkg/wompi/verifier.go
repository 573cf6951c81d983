package wompi

import (
	"crypto/subtle"
	"strings"

	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
)

// VerificationMode tells callers whether events were actually checked.
type VerificationMode int

const (
	VerificationEnforced VerificationMode = iota
	VerificationDisabled
)

// Verifier checks event checksums against the events secret.
type Verifier struct {
	secret string
	mode   VerificationMode
}

// NewVerifier fails closed: an empty secret rejects every event unless
// allowUnverified is set, in which case Mode reports VerificationDisabled.
func NewVerifier(eventsSecret string, allowUnverified bool) *Verifier {
	mode := VerificationEnforced
	if eventsSecret == "" && allowUnverified {
		mode = VerificationDisabled
	}
	return &Verifier{secret: eventsSecret, mode: mode}
}

func (v *Verifier) Mode() VerificationMode {
	return v.mode
}

// Verify recomputes SHA256(values of signature.properties + timestamp + secret)
// and compares it to signature.checksum in constant time.
func (v *Verifier) Verify(event *Event) error {
	if v.mode == VerificationDisabled {
		return nil
	}
	if v.secret == "" {
		return invalid("events secret not configured")
	}
	if event == nil {
		return invalid("missing event")
	}

	checksum := strings.TrimSpace(event.Checksum())
	if checksum == "" {
		return invalid("missing signature checksum")
	}
	props, ok := event.Properties()
	if !ok {
		return invalid("missing signature properties")
	}
	timestamp, ok := event.Timestamp()
	if !ok || timestamp == "" {
		return invalid("missing timestamp")
	}

	parts := make([]string, 0, len(props)+2)
	for _, prop := range props {
		value, found := event.DataValue(prop)
		if !found {
			return invalid("signed property not present").WithDetails(map[string]any{"property": prop})
		}
		parts = append(parts, value)
	}
	parts = append(parts, timestamp, v.secret)

	expected := digest(parts...)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(checksum))) != 1 {
		return invalid("checksum mismatch")
	}
	return nil
}

// Checksum computes the checksum a sender holding secret would attach. Used to
// build fixtures and by tooling that replays events.
func Checksum(values []string, timestamp, secret string) string {
	parts := append(append([]string{}, values...), timestamp, secret)
	return digest(parts...)
}

func invalid(msg string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInvalidSignature, msg)
}
