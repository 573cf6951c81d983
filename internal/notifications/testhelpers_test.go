package notifications

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

func sampleOrder() *models.Order {
	txID := "1234-1610641025-49201"
	line2 := "Apto 301"
	return &models.Order{
		ID:                   uuid.MustParse("5b1f0c36-6d3a-4c57-9a4f-0d3a7b9b2f10"),
		Reference:            "0f8fad5b-d9cb-469f-a165-70867728950e",
		GatewayTransactionID: &txID,
		Status:               enums.OrderStatusApproved,
		AmountInCents:        18000000,
		Currency:             enums.CurrencyCOP,
		CustomerEmail:        "ana@example.com",
		CustomerName:         "Ana <Rock>",
		CustomerData: types.CustomerData{
			FullName:          "Ana <Rock>",
			Email:             "ana@example.com",
			PhoneNumberPrefix: "57",
			PhoneNumber:       "3001234567",
			LegalID:           "1020304050",
			LegalIDType:       enums.LegalIDTypeCC,
		},
		ShippingAddress: types.ShippingAddress{
			AddressLine1: "Calle 10 # 5-20",
			AddressLine2: &line2,
			Country:      "CO",
			Region:       "Antioquia",
			City:         "Medellín",
			PhoneNumber:  "3001234567",
			Name:         "Ana Rock",
		},
		CollectShipping: true,
		CartSnapshot: types.CartSnapshot{
			Items: []types.CartLine{{
				ProductID:    uuid.MustParse("9a1e8c7b-2f44-4b1a-8f0a-7c1d2e3f4a5b"),
				VariantID:    "v-m",
				Size:         "M",
				Quantity:     2,
				UnitPrice:    decimal.NewFromInt(100000),
				UnitDiscount: decimal.NewFromInt(10000),
				LineTotal:    decimal.NewFromInt(180000),
				ProductName:  "Camiseta Furia",
				ColorName:    "Negro",
				ImageURL:     "https://cdn.example.com/camiseta.png",
			}},
			Subtotal:      decimal.NewFromInt(200000),
			DiscountTotal: decimal.NewFromInt(20000),
			Total:         decimal.NewFromInt(180000),
		},
		CreatedAt: time.Date(2026, time.March, 2, 15, 30, 0, 0, time.UTC),
	}
}

func notificationCount(t *testing.T, reg *prometheus.Registry, channel, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "furia_order_notifications_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, label := range metric.GetLabel() {
				labels[label.GetName()] = label.GetValue()
			}
			if labels["channel"] == channel && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
