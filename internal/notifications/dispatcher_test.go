package notifications

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
)

type stubAlerts struct {
	ok     bool
	panics bool
	calls  int
}

func (s *stubAlerts) SendOrderAlert(context.Context, *models.Order) bool {
	s.calls++
	if s.panics {
		panic("telegram exploded")
	}
	return s.ok
}

type stubConfirmations struct {
	ok    bool
	calls int
}

func (s *stubConfirmations) SendOrderConfirmation(context.Context, *models.Order) bool {
	s.calls++
	return s.ok
}

func newTestDispatcher(t *testing.T, alerts AlertSender, confirmations ConfirmationSender) (*Dispatcher, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	d, err := NewDispatcher(DispatcherParams{
		Alerts:        alerts,
		Confirmations: confirmations,
		Metrics:       metrics.NewPaymentMetrics(reg),
	})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d, reg
}

func TestDispatcherSendsBothChannels(t *testing.T) {
	t.Parallel()

	alerts := &stubAlerts{ok: true}
	mails := &stubConfirmations{ok: true}
	d, reg := newTestDispatcher(t, alerts, mails)

	d.OrderApproved(context.Background(), sampleOrder())

	if alerts.calls != 1 || mails.calls != 1 {
		t.Fatalf("expected one call per channel, got telegram=%d email=%d", alerts.calls, mails.calls)
	}
	if got := notificationCount(t, reg, ChannelTelegram, "sent"); got != 1 {
		t.Fatalf("telegram sent = %v", got)
	}
	if got := notificationCount(t, reg, ChannelEmail, "sent"); got != 1 {
		t.Fatalf("email sent = %v", got)
	}
}

func TestDispatcherIsolatesChannelFailures(t *testing.T) {
	t.Parallel()

	alerts := &stubAlerts{panics: true}
	mails := &stubConfirmations{ok: true}
	d, reg := newTestDispatcher(t, alerts, mails)

	d.OrderApproved(context.Background(), sampleOrder())

	if mails.calls != 1 {
		t.Fatalf("email must still be attempted after telegram panic")
	}
	if got := notificationCount(t, reg, ChannelTelegram, "failed"); got != 1 {
		t.Fatalf("telegram failed = %v", got)
	}
	if got := notificationCount(t, reg, ChannelEmail, "sent"); got != 1 {
		t.Fatalf("email sent = %v", got)
	}
}

func TestDispatcherCountsEmailFailure(t *testing.T) {
	t.Parallel()

	d, reg := newTestDispatcher(t, &stubAlerts{ok: true}, &stubConfirmations{ok: false})
	d.OrderApproved(context.Background(), sampleOrder())

	if got := notificationCount(t, reg, ChannelEmail, "failed"); got != 1 {
		t.Fatalf("email failed = %v", got)
	}
}

func TestDispatcherIgnoresNilOrder(t *testing.T) {
	t.Parallel()

	alerts := &stubAlerts{ok: true}
	d, _ := newTestDispatcher(t, alerts, &stubConfirmations{ok: true})
	d.OrderApproved(context.Background(), nil)
	if alerts.calls != 0 {
		t.Fatalf("nil order must not notify")
	}
}

func TestNewDispatcherRequiresSenders(t *testing.T) {
	t.Parallel()

	if _, err := NewDispatcher(DispatcherParams{Confirmations: &stubConfirmations{}}); err == nil {
		t.Fatal("expected error without alert sender")
	}
	if _, err := NewDispatcher(DispatcherParams{Alerts: &stubAlerts{}}); err == nil {
		t.Fatal("expected error without confirmation sender")
	}
}
