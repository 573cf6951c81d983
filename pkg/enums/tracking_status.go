package enums

import "fmt"

// TrackingStatus is the fulfillment progress of an approved order.
type TrackingStatus string

const (
	TrackingStatusPreparing TrackingStatus = "PREPARING"
	TrackingStatusShipped   TrackingStatus = "SHIPPED"
	TrackingStatusDelivered TrackingStatus = "DELIVERED"
)

var validTrackingStatuses = []TrackingStatus{
	TrackingStatusPreparing,
	TrackingStatusShipped,
	TrackingStatusDelivered,
}

func (t TrackingStatus) String() string {
	return string(t)
}

func (t TrackingStatus) IsValid() bool {
	for _, candidate := range validTrackingStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseTrackingStatus(value string) (TrackingStatus, error) {
	for _, candidate := range validTrackingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tracking status %q", value)
}
