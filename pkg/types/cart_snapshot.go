package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one priced item of a CartSnapshot. Money values are decimal major
// units of the order currency.
type CartLine struct {
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    string          `json:"variant_id"`
	Size         string          `json:"size"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	UnitDiscount decimal.Decimal `json:"unit_discount"`
	LineTotal    decimal.Decimal `json:"line_total"`
	ProductName  string          `json:"product_name"`
	ColorName    string          `json:"color_name,omitempty"`
	ColorHex     string          `json:"color_hex,omitempty"`
	QualityName  string          `json:"quality_name,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// CartSnapshot freezes a cart at checkout time.
// Subtotal - DiscountTotal == Total and Total == sum(LineTotal).
type CartSnapshot struct {
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	Total         decimal.Decimal `json:"total"`
}

// ItemCount sums quantities across lines.
func (s CartSnapshot) ItemCount() int {
	count := 0
	for _, line := range s.Items {
		count += line.Quantity
	}
	return count
}

// AmountInCents converts Total to minor units, rounding half away from zero.
func (s CartSnapshot) AmountInCents() int64 {
	return s.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
