package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

// ListFilters describe the inputs supported by the admin orders list.
type ListFilters struct {
	Statuses         []enums.OrderStatus
	TrackingStatuses []enums.TrackingStatus
	CustomerName     string
	CustomerEmail    string
	SortAscending    bool
}

// OrderSummary is one row of the admin orders list.
type OrderSummary struct {
	ID             uuid.UUID             `json:"id"`
	Reference      string                `json:"reference"`
	Status         enums.OrderStatus     `json:"status"`
	TrackingStatus *enums.TrackingStatus `json:"tracking_status,omitempty"`
	AmountInCents  int64                 `json:"amount_in_cents"`
	Currency       enums.Currency        `json:"currency"`
	CustomerName   string                `json:"customer_name"`
	CustomerEmail  string                `json:"customer_email"`
	ItemsCount     int                   `json:"items_count"`
	CreatedAt      time.Time             `json:"created_at"`
}

// OrderDetail is the full view of an order, served publicly by reference and
// to admins by id.
type OrderDetail struct {
	ID                   uuid.UUID             `json:"id"`
	Reference            string                `json:"reference"`
	Status               enums.OrderStatus     `json:"status"`
	GatewayTransactionID *string               `json:"transaction_id,omitempty"`
	AmountInCents        int64                 `json:"amount_in_cents"`
	Currency             enums.Currency        `json:"currency"`
	CustomerData         types.CustomerData    `json:"customer_data"`
	ShippingAddress      types.ShippingAddress `json:"shipping_address"`
	CollectShipping      bool                  `json:"collect_shipping"`
	CartSnapshot         types.CartSnapshot    `json:"cart_snapshot"`
	ErrorMessage         *string               `json:"error_message,omitempty"`
	TrackingStatus       *enums.TrackingStatus `json:"tracking_status,omitempty"`
	TrackingNumber       *string               `json:"tracking_number,omitempty"`
	TrackingNotes        *string               `json:"tracking_notes,omitempty"`
	ShippedAt            *time.Time            `json:"shipped_at,omitempty"`
	DeliveredAt          *time.Time            `json:"delivered_at,omitempty"`
	ExpiresAt            *time.Time            `json:"expires_at,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// TrackingInput updates fulfillment data of an approved order.
type TrackingInput struct {
	Status         enums.TrackingStatus
	TrackingNumber *string
	Notes          *string
}

// PaymentUpdate is a gateway-reported status for the order with Reference.
type PaymentUpdate struct {
	Reference     string
	Status        enums.OrderStatus
	TransactionID string
	StatusMessage string
}

// Transition reports what ApplyPaymentStatus did. Notify is true only for the
// single caller that moved the order into APPROVED and won the notification claim.
type Transition struct {
	Order    *models.Order
	Previous enums.OrderStatus
	Changed  bool
	Rejected bool
	Notify   bool
}

func NewOrderSummary(order models.Order) OrderSummary {
	return OrderSummary{
		ID:             order.ID,
		Reference:      order.Reference,
		Status:         order.Status,
		TrackingStatus: order.TrackingStatus,
		AmountInCents:  order.AmountInCents,
		Currency:       order.Currency,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		ItemsCount:     order.CartSnapshot.ItemCount(),
		CreatedAt:      order.CreatedAt,
	}
}

func NewOrderDetail(order *models.Order) *OrderDetail {
	if order == nil {
		return nil
	}
	return &OrderDetail{
		ID:                   order.ID,
		Reference:            order.Reference,
		Status:               order.Status,
		GatewayTransactionID: order.GatewayTransactionID,
		AmountInCents:        order.AmountInCents,
		Currency:             order.Currency,
		CustomerData:         order.CustomerData,
		ShippingAddress:      order.ShippingAddress,
		CollectShipping:      order.CollectShipping,
		CartSnapshot:         order.CartSnapshot,
		ErrorMessage:         order.ErrorMessage,
		TrackingStatus:       order.TrackingStatus,
		TrackingNumber:       order.TrackingNumber,
		TrackingNotes:        order.TrackingNotes,
		ShippedAt:            order.ShippedAt,
		DeliveredAt:          order.DeliveredAt,
		ExpiresAt:            order.ExpiresAt,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}
