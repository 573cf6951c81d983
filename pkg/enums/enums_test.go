package enums

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusTerminal(t *testing.T) {
	require.False(t, OrderStatusPending.IsTerminal())
	for _, s := range []OrderStatus{OrderStatusApproved, OrderStatusDeclined, OrderStatusVoided, OrderStatusError} {
		require.True(t, s.IsTerminal(), s)
	}
}

func TestOrderStatusFromGateway(t *testing.T) {
	cases := map[string]OrderStatus{
		"APPROVED": OrderStatusApproved,
		"approved": OrderStatusApproved,
		"Declined": OrderStatusDeclined,
		"VOIDED":   OrderStatusVoided,
		"error":    OrderStatusError,
		"PENDING":  OrderStatusPending,
		"UNKNOWN":  OrderStatusPending,
		"":         OrderStatusPending,
	}
	for in, want := range cases {
		require.Equal(t, want, OrderStatusFromGateway(in), in)
	}
}

func TestParseOrderStatusIsStrict(t *testing.T) {
	_, err := ParseOrderStatus("approved")
	require.Error(t, err)

	got, err := ParseOrderStatus("APPROVED")
	require.NoError(t, err)
	require.Equal(t, OrderStatusApproved, got)
}

func TestParseTrackingAndLegalID(t *testing.T) {
	ts, err := ParseTrackingStatus("SHIPPED")
	require.NoError(t, err)
	require.Equal(t, TrackingStatusShipped, ts)
	_, err = ParseTrackingStatus("LOST")
	require.Error(t, err)

	require.True(t, LegalIDTypeNIT.IsValid())
	_, err = ParseLegalIDType("DNI")
	require.Error(t, err)

	require.True(t, CurrencyCOP.IsValid())
	_, err = ParseCurrency("USD")
	require.Error(t, err)
}
