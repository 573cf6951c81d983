package checkout

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

// SessionInput is the buyer data collected by the storefront. Prices and
// totals never come from the client.
type SessionInput struct {
	CustomerData    types.CustomerData
	ShippingAddress types.ShippingAddress
	CollectShipping bool
}

// SessionCustomer is the customer block the payment widget prefills.
type SessionCustomer struct {
	FullName          string            `json:"full_name"`
	PhoneNumber       string            `json:"phone_number"`
	PhoneNumberPrefix string            `json:"phone_number_prefix"`
	LegalID           string            `json:"legal_id"`
	LegalIDType       enums.LegalIDType `json:"legal_id_type"`
}

// Session carries the parameters the storefront hands to the payment widget.
// It never includes the private key or any secret.
type Session struct {
	PublicKey       string                `json:"public_key"`
	Currency        enums.Currency        `json:"currency"`
	AmountInCents   int64                 `json:"amount_in_cents"`
	Reference       string                `json:"reference"`
	Signature       string                `json:"signature:integrity"`
	RedirectURL     string                `json:"redirect_url"`
	CheckoutURL     string                `json:"checkout_url,omitempty"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerData    SessionCustomer       `json:"customer_data"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	OrderID         uuid.UUID             `json:"order_id"`
}
