package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

func seedOrder(t *testing.T, conn *gorm.DB, mutate func(*models.Order)) *models.Order {
	t.Helper()
	order := &models.Order{
		Reference:     uuid.NewString(),
		SessionID:     "sess-" + uuid.NewString(),
		Status:        enums.OrderStatusPending,
		AmountInCents: 18000,
		Currency:      enums.CurrencyCOP,
		CustomerEmail: "ana@example.com",
		CustomerName:  "Ana Gomez",
		CustomerData: types.CustomerData{
			FullName:          "Ana Gomez",
			Email:             "ana@example.com",
			PhoneNumberPrefix: "57",
			PhoneNumber:       "3001234567",
			LegalID:           "1020304050",
			LegalIDType:       enums.LegalIDTypeCC,
		},
		ShippingAddress: types.ShippingAddress{
			AddressLine1: "Calle 10 # 20-30",
			Country:      "CO",
			Region:       "Antioquia",
			City:         "Medellin",
			PhoneNumber:  "3001234567",
			Name:         "Ana Gomez",
		},
		CartSnapshot: types.CartSnapshot{
			Items: []types.CartLine{{
				ProductID:    uuid.New(),
				VariantID:    "black",
				Size:         "M",
				Quantity:     2,
				UnitPrice:    decimal.NewFromInt(100),
				UnitDiscount: decimal.NewFromInt(10),
				LineTotal:    decimal.NewFromInt(180),
				ProductName:  "Camiseta Furia",
			}},
			Subtotal:      decimal.NewFromInt(200),
			DiscountTotal: decimal.NewFromInt(20),
			Total:         decimal.NewFromInt(180),
		},
	}
	expires := time.Now().Add(15 * time.Minute)
	order.ExpiresAt = &expires
	if mutate != nil {
		mutate(order)
	}
	require.NoError(t, conn.Create(order).Error)
	return order
}
