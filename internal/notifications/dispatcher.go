// Package notifications tells staff and customers about approved orders.
// Every channel is best effort: failures are logged and counted, never returned.
package notifications

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
)

const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"
)

// AlertSender delivers the internal operational alert for a paid order.
type AlertSender interface {
	SendOrderAlert(ctx context.Context, order *models.Order) bool
}

// ConfirmationSender delivers the customer-facing confirmation.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) bool
}

type DispatcherParams struct {
	Alerts        AlertSender
	Confirmations ConfirmationSender
	Metrics       *metrics.PaymentMetrics
	Logger        *logger.Logger
}

// Dispatcher fans an approved order out to every channel independently.
type Dispatcher struct {
	alerts        AlertSender
	confirmations ConfirmationSender
	metrics       *metrics.PaymentMetrics
	logg          *logger.Logger
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert sender required")
	}
	if params.Confirmations == nil {
		return nil, fmt.Errorf("confirmation sender required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Dispatcher{
		alerts:        params.Alerts,
		confirmations: params.Confirmations,
		metrics:       params.Metrics,
		logg:          logg,
	}, nil
}

// OrderApproved sends the staff alert and the customer confirmation. One
// channel failing or panicking never affects the other.
func (d *Dispatcher) OrderApproved(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	ctx = d.logg.WithReference(ctx, order.Reference)

	var errs error
	if !d.deliver(ctx, ChannelTelegram, func() bool { return d.alerts.SendOrderAlert(ctx, order) }) {
		errs = multierr.Append(errs, fmt.Errorf("%s alert not delivered", ChannelTelegram))
	}
	if !d.deliver(ctx, ChannelEmail, func() bool { return d.confirmations.SendOrderConfirmation(ctx, order) }) {
		errs = multierr.Append(errs, fmt.Errorf("%s confirmation not delivered", ChannelEmail))
	}

	if errs != nil {
		d.logg.Error(d.logg.WithField(ctx, "failed_channels", len(multierr.Errors(errs))), "order notifications incomplete", errs)
		return
	}
	d.logg.Info(ctx, "order notifications sent")
}

func (d *Dispatcher) deliver(ctx context.Context, channel string, send func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logg.Error(d.logg.WithField(ctx, "channel", channel), "notification channel panicked", fmt.Errorf("panic: %v", r))
			ok = false
		}
		d.metrics.Notification(channel, ok)
	}()
	return send()
}
