package enums

import (
	"fmt"
	"strings"
)

// OrderStatus mirrors the payment gateway transaction status of an order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusApproved OrderStatus = "APPROVED"
	OrderStatusDeclined OrderStatus = "DECLINED"
	OrderStatusVoided   OrderStatus = "VOIDED"
	OrderStatusError    OrderStatus = "ERROR"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusDeclined,
	OrderStatusVoided,
	OrderStatusError,
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status no longer transitions.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusApproved, OrderStatusDeclined, OrderStatusVoided, OrderStatusError:
		return true
	default:
		return false
	}
}

// ParseOrderStatus is strict: the value must match a known status exactly.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatusFromGateway maps a gateway transaction status case-insensitively.
// Anything unrecognized stays PENDING.
func OrderStatusFromGateway(value string) OrderStatus {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	if status.IsValid() {
		return status
	}
	return OrderStatusPending
}
