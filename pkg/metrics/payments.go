package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for webhook_events_total.
const (
	WebhookProcessed        = "processed"
	WebhookDuplicate        = "duplicate"
	WebhookIgnored          = "ignored"
	WebhookInvalidSignature = "invalid_signature"
	WebhookMalformed        = "malformed"
	WebhookNotFound         = "not_found"
	WebhookRejected         = "rejected"
	WebhookError            = "error"
)

// PaymentMetrics counts checkout sessions, webhook deliveries and order
// notifications. The zero value and a nil pointer are no-ops.
type PaymentMetrics struct {
	checkoutSessions *prometheus.CounterVec
	webhookEvents    *prometheus.CounterVec
	notifications    *prometheus.CounterVec
}

func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	m := &PaymentMetrics{
		checkoutSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_sessions_total",
			Help:      "Checkout session attempts by outcome (created or error code).",
		}, []string{"outcome"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Payment gateway webhook deliveries by reconciliation outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_notifications_total",
			Help:      "Order notifications by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}
	reg.MustRegister(m.checkoutSessions, m.webhookEvents, m.notifications)
	return m
}

func (m *PaymentMetrics) CheckoutSession(outcome string) {
	if m == nil || m.checkoutSessions == nil {
		return
	}
	m.checkoutSessions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *PaymentMetrics) WebhookEvent(outcome string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *PaymentMetrics) Notification(channel string, ok bool) {
	if m == nil || m.notifications == nil {
		return
	}
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.notifications.WithLabelValues(normalizeLabel(channel), outcome).Inc()
}
