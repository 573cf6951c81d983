// Package wompiwebhook reconciles payment gateway events with stored orders.
package wompiwebhook

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/furiarock-backend/internal/orders"
	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
	"github.com/angelmondragon/furiarock-backend/pkg/wompi"
)

// Outcome is the reconciliation result of one delivery. Values double as
// metric labels.
type Outcome string

const (
	OutcomeProcessed        Outcome = metrics.WebhookProcessed
	OutcomeDuplicate        Outcome = metrics.WebhookDuplicate
	OutcomeIgnored          Outcome = metrics.WebhookIgnored
	OutcomeInvalidSignature Outcome = metrics.WebhookInvalidSignature
	OutcomeMalformed        Outcome = metrics.WebhookMalformed
	OutcomeNotFound         Outcome = metrics.WebhookNotFound
	OutcomeRejected         Outcome = metrics.WebhookRejected
	OutcomeError            Outcome = metrics.WebhookError
)

type paymentApplier interface {
	ApplyPaymentStatus(ctx context.Context, update orders.PaymentUpdate) (*orders.Transition, error)
}

type eventVerifier interface {
	Verify(event *wompi.Event) error
	Mode() wompi.VerificationMode
}

type approvalNotifier interface {
	OrderApproved(ctx context.Context, order *models.Order)
}

type deliveryGuard interface {
	CheckAndMark(ctx context.Context, deliveryID string) (bool, error)
	Delete(ctx context.Context, deliveryID string) error
}

type ServiceParams struct {
	Orders   paymentApplier
	Verifier eventVerifier
	Notifier approvalNotifier
	// Guard is optional; without it every delivery reaches the database.
	Guard   deliveryGuard
	Metrics *metrics.PaymentMetrics
	Logger  *logger.Logger
}

type Service struct {
	orders   paymentApplier
	verifier eventVerifier
	notifier approvalNotifier
	guard    deliveryGuard
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("event verifier required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		orders:   params.Orders,
		verifier: params.Verifier,
		notifier: params.Notifier,
		guard:    params.Guard,
		metrics:  params.Metrics,
		logg:     logg,
	}, nil
}

// HandleEvent never fails: every problem is logged and reported as an Outcome
// so the HTTP layer can always acknowledge the delivery.
func (s *Service) HandleEvent(ctx context.Context, raw []byte) Outcome {
	outcome := s.handle(ctx, raw)
	s.metrics.WebhookEvent(string(outcome))
	return outcome
}

func (s *Service) handle(ctx context.Context, raw []byte) (outcome Outcome) {
	var marked string
	defer func() {
		if r := recover(); r != nil {
			s.logg.Error(ctx, "webhook reconciliation panicked", fmt.Errorf("panic: %v", r))
			s.release(ctx, marked)
			outcome = OutcomeError
		}
	}()

	event, err := wompi.ParseEvent(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "webhook body is not a json object")
		return OutcomeMalformed
	}

	if s.verifier.Mode() == wompi.VerificationDisabled {
		s.logg.Warn(ctx, "webhook signature verification disabled; accepting unverified event")
	} else if err := s.verifier.Verify(event); err != nil {
		fields := map[string]any{"event": event.Name(), "reason": pkgerrors.As(err).Message()}
		s.logg.Warn(s.logg.WithFields(ctx, fields), "invalid webhook signature")
		return OutcomeInvalidSignature
	}

	name := event.Name()
	if name == "" {
		s.logg.Warn(ctx, "webhook received without event field")
		return OutcomeIgnored
	}
	if name != wompi.EventTransactionUpdated {
		s.logg.Info(s.logg.WithField(ctx, "event", name), "unhandled webhook event")
		return OutcomeIgnored
	}
	if !event.HasTransaction() {
		s.logg.Warn(ctx, "webhook received without transaction data")
		return OutcomeIgnored
	}

	txn := event.Transaction()
	status := enums.OrderStatusFromGateway(txn.Status)
	ctx = s.logg.WithPaymentEvent(ctx, txn.Reference, string(status), txn.ID)
	if txn.Reference == "" {
		s.logg.Warn(ctx, "webhook transaction without reference")
		return OutcomeIgnored
	}
	if !strings.EqualFold(strings.TrimSpace(txn.Status), string(status)) {
		s.logg.Warn(s.logg.WithField(ctx, "gateway_status", txn.Status), "unrecognized gateway status mapped to pending")
	}

	deliveryID := strings.Join([]string{txn.Reference, txn.ID, string(status)}, ":")
	if s.guard != nil {
		seen, err := s.guard.CheckAndMark(ctx, deliveryID)
		switch {
		case err != nil:
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "webhook dedupe unavailable; continuing")
		case seen:
			s.logg.Info(ctx, "duplicate webhook delivery skipped")
			return OutcomeDuplicate
		default:
			marked = deliveryID
		}
	}

	// Once a delivery is marked, the write and the notifications must not
	// depend on the sender keeping its connection open.
	ctx = context.WithoutCancel(ctx)
	transition, err := s.orders.ApplyPaymentStatus(ctx, orders.PaymentUpdate{
		Reference:     txn.Reference,
		Status:        status,
		TransactionID: txn.ID,
		StatusMessage: txn.StatusMessage,
	})
	if err != nil {
		s.release(ctx, marked)
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			s.logg.Warn(ctx, "webhook references unknown order")
			return OutcomeNotFound
		}
		s.logg.Error(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "webhook reconciliation failed", err)
		return OutcomeError
	}

	ctx = s.logg.WithOrderID(ctx, transition.Order.ID.String())
	switch {
	case transition.Rejected:
		s.logg.Warn(s.logg.WithField(ctx, "current_status", string(transition.Previous)), "terminal order ignored status change")
		return OutcomeRejected
	case !transition.Changed:
		s.logg.Info(ctx, "order already in reported status")
		return OutcomeDuplicate
	}

	s.logg.Info(s.logg.WithField(ctx, "previous_status", string(transition.Previous)), "order status updated")
	if transition.Notify {
		s.notifier.OrderApproved(ctx, transition.Order)
	}
	return OutcomeProcessed
}

// release forgets a marked delivery so the gateway's retry reaches the
// database again.
func (s *Service) release(ctx context.Context, deliveryID string) {
	if s.guard == nil || deliveryID == "" {
		return
	}
	if err := s.guard.Delete(context.WithoutCancel(ctx), deliveryID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "release webhook dedupe key")
	}
}
