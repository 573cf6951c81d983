package types

import "github.com/angelmondragon/furiarock-backend/pkg/enums"

// CustomerData is the buyer identity captured at checkout and forwarded to the
// payment widget. PhoneNumberPrefix is always filled server side.
type CustomerData struct {
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	PhoneNumberPrefix string            `json:"phone_number_prefix"`
	PhoneNumber       string            `json:"phone_number"`
	LegalID           string            `json:"legal_id"`
	LegalIDType       enums.LegalIDType `json:"legal_id_type"`
}

// ShippingAddress is where an order ships. Country is always filled server side.
type ShippingAddress struct {
	AddressLine1 string  `json:"address_line_1"`
	AddressLine2 *string `json:"address_line_2,omitempty"`
	Country      string  `json:"country"`
	Region       string  `json:"region"`
	City         string  `json:"city"`
	PhoneNumber  string  `json:"phone_number"`
	Name         string  `json:"name"`
}
