package controllers

import (
	"net/http"

	"github.com/angelmondragon/furiarock-backend/api/middleware"
	"github.com/angelmondragon/furiarock-backend/api/responses"
	"github.com/angelmondragon/furiarock-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/furiarock-backend/internal/checkout"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

// CreatePaymentSession turns the caller's active cart into a PENDING order and
// returns the signed widget parameters.
func CreatePaymentSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Session-Id header required"))
			return
		}

		var payload createSessionRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.CreateSession(r.Context(), sessionID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

type createSessionRequest struct {
	CustomerData    customerDataRequest    `json:"customer_data" validate:"required"`
	ShippingAddress shippingAddressRequest `json:"shipping_address" validate:"required"`
	CollectShipping *bool                  `json:"collect_shipping" validate:"required"`
}

type customerDataRequest struct {
	FullName          string `json:"full_name" validate:"required,max=255"`
	Email             string `json:"email" validate:"required,email,max=255"`
	PhoneNumber       string `json:"phone_number" validate:"required,numeric,min=7,max=15"`
	PhoneNumberPrefix string `json:"phone_number_prefix" validate:"omitempty,max=5"`
	LegalID           string `json:"legal_id" validate:"required,max=32"`
	LegalIDType       string `json:"legal_id_type" validate:"required,oneof=CC CE TI NIT PP"`
}

type shippingAddressRequest struct {
	AddressLine1 string  `json:"address_line_1" validate:"required,max=255"`
	AddressLine2 *string `json:"address_line_2" validate:"omitempty,max=255"`
	Country      string  `json:"country" validate:"omitempty,len=2"`
	Region       string  `json:"region" validate:"required,max=100"`
	City         string  `json:"city" validate:"required,max=100"`
	PhoneNumber  string  `json:"phone_number" validate:"required,numeric,min=7,max=15"`
	Name         string  `json:"name" validate:"required,max=255"`
}

// toInput trims free text. Country and phone prefix are forced server side.
func (p createSessionRequest) toInput() checkoutsvc.SessionInput {
	var line2 *string
	if p.ShippingAddress.AddressLine2 != nil {
		if v := validators.SanitizeString(*p.ShippingAddress.AddressLine2, 255); v != "" {
			line2 = &v
		}
	}
	return checkoutsvc.SessionInput{
		CustomerData: types.CustomerData{
			FullName:    validators.SanitizeString(p.CustomerData.FullName, 255),
			Email:       validators.SanitizeString(p.CustomerData.Email, 255),
			PhoneNumber: p.CustomerData.PhoneNumber,
			LegalID:     validators.SanitizeString(p.CustomerData.LegalID, 32),
			LegalIDType: enums.LegalIDType(p.CustomerData.LegalIDType),
		},
		ShippingAddress: types.ShippingAddress{
			AddressLine1: validators.SanitizeString(p.ShippingAddress.AddressLine1, 255),
			AddressLine2: line2,
			Region:       validators.SanitizeString(p.ShippingAddress.Region, 100),
			City:         validators.SanitizeString(p.ShippingAddress.City, 100),
			PhoneNumber:  p.ShippingAddress.PhoneNumber,
			Name:         validators.SanitizeString(p.ShippingAddress.Name, 255),
		},
		CollectShipping: *p.CollectShipping,
	}
}
