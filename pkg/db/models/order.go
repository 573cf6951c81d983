package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

// Order is the durable record of a checkout attempt, reconciled against the
// payment gateway by reference.
type Order struct {
	ID                   uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Reference            string                `gorm:"column:reference;not null;uniqueIndex:orders_reference_key"`
	GatewayTransactionID *string               `gorm:"column:gateway_transaction_id"`
	SessionID            string                `gorm:"column:session_id;not null"`
	Status               enums.OrderStatus     `gorm:"column:status;not null;default:'PENDING'"`
	AmountInCents        int64                 `gorm:"column:amount_in_cents;not null"`
	Currency             enums.Currency        `gorm:"column:currency;not null;default:'COP'"`
	CustomerEmail        string                `gorm:"column:customer_email;not null"`
	CustomerName         string                `gorm:"column:customer_name;not null"`
	CustomerData         types.CustomerData    `gorm:"column:customer_data;type:jsonb;serializer:json;not null"`
	ShippingAddress      types.ShippingAddress `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	CollectShipping      bool                  `gorm:"column:collect_shipping;not null;default:false"`
	CartSnapshot         types.CartSnapshot    `gorm:"column:cart_snapshot;type:jsonb;serializer:json;not null"`
	ExpiresAt            *time.Time            `gorm:"column:expires_at"`
	CheckoutURL          *string               `gorm:"column:checkout_url"`
	ErrorMessage         *string               `gorm:"column:error_message"`
	TrackingStatus       *enums.TrackingStatus `gorm:"column:tracking_status"`
	TrackingNumber       *string               `gorm:"column:tracking_number"`
	TrackingNotes        *string               `gorm:"column:tracking_notes"`
	ShippedAt            *time.Time            `gorm:"column:shipped_at"`
	DeliveredAt          *time.Time            `gorm:"column:delivered_at"`
	PaidNotifiedAt       *time.Time            `gorm:"column:paid_notified_at"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
