package enums

import "fmt"

// LegalIDType is the kind of identity document a customer provides at checkout.
type LegalIDType string

const (
	LegalIDTypeCC  LegalIDType = "CC"
	LegalIDTypeCE  LegalIDType = "CE"
	LegalIDTypeTI  LegalIDType = "TI"
	LegalIDTypeNIT LegalIDType = "NIT"
	LegalIDTypePP  LegalIDType = "PP"
)

var validLegalIDTypes = []LegalIDType{
	LegalIDTypeCC,
	LegalIDTypeCE,
	LegalIDTypeTI,
	LegalIDTypeNIT,
	LegalIDTypePP,
}

func (l LegalIDType) String() string {
	return string(l)
}

func (l LegalIDType) IsValid() bool {
	for _, candidate := range validLegalIDTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

func ParseLegalIDType(value string) (LegalIDType, error) {
	for _, candidate := range validLegalIDTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid legal id type %q", value)
}
