package enums

import "fmt"

// Currency is the settlement currency of an order. Only COP is accepted.
type Currency string

const (
	CurrencyCOP Currency = "COP"
)

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	return c == CurrencyCOP
}

func ParseCurrency(value string) (Currency, error) {
	if c := Currency(value); c.IsValid() {
		return c, nil
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
