package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/pagination"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order reads, admin tracking updates and the payment status
// state machine used by webhook reconciliation.
type Service interface {
	GetByReference(ctx context.Context, reference string) (*OrderDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (types.Page[OrderSummary], error)
	UpdateTracking(ctx context.Context, id uuid.UUID, input TrackingInput) (*OrderDetail, error)
	ApplyPaymentStatus(ctx context.Context, update PaymentUpdate) (*Transition, error)
}

type ServiceParams struct {
	Repo Repository
	Tx   txRunner
	Now  func() time.Time
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, tx: params.Tx, now: now}, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*OrderDetail, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}
	order, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDetail(order), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDetail(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (types.Page[OrderSummary], error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return types.Page[OrderSummary]{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	items := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewOrderSummary(row))
	}
	return types.NewPage(items, total, params.Page, params.Limit), nil
}

// UpdateTracking records fulfillment progress. Only approved orders ship;
// payment fields are never touched here.
func (s *service) UpdateTracking(ctx context.Context, id uuid.UUID, input TrackingInput) (*OrderDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid tracking status %q", input.Status)
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if order.Status != enums.OrderStatusApproved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only approved orders can be tracked").
				WithDetails(map[string]any{"status": order.Status})
		}

		now := s.now().UTC()
		fields := map[string]any{
			"tracking_status": input.Status,
			"updated_at":      now,
		}
		if input.TrackingNumber != nil {
			fields["tracking_number"] = strings.TrimSpace(*input.TrackingNumber)
		}
		if input.Notes != nil {
			fields["tracking_notes"] = strings.TrimSpace(*input.Notes)
		}
		if input.Status == enums.TrackingStatusShipped && order.ShippedAt == nil {
			fields["shipped_at"] = now
		}
		if input.Status == enums.TrackingStatusDelivered && order.DeliveredAt == nil {
			fields["delivered_at"] = now
			if order.ShippedAt == nil {
				fields["shipped_at"] = now
			}
		}
		if err := repo.Update(ctx, order.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update tracking")
		}
		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewOrderDetail(updated), nil
}

// ApplyPaymentStatus moves an order to the gateway reported status under a
// row lock. Repeating the current status is a no-op and terminal orders never
// change status again.
func (s *service) ApplyPaymentStatus(ctx context.Context, update PaymentUpdate) (*Transition, error) {
	if strings.TrimSpace(update.Reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}
	if !update.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", update.Status)
	}

	var result *Transition
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockByReference(ctx, update.Reference)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order == nil {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", update.Reference)
		}

		result = &Transition{Order: order, Previous: order.Status}
		fields := map[string]any{}
		switch {
		case update.Status == order.Status:
			if update.Status == enums.OrderStatusPending && update.TransactionID != "" && !sameTransaction(order, update.TransactionID) {
				fields["gateway_transaction_id"] = update.TransactionID
			}
		case order.Status.IsTerminal():
			result.Rejected = true
			return nil
		default:
			fields["status"] = update.Status
			if update.TransactionID != "" {
				fields["gateway_transaction_id"] = update.TransactionID
			}
			if update.Status != enums.OrderStatusApproved && update.Status != enums.OrderStatusPending && update.StatusMessage != "" {
				fields["error_message"] = update.StatusMessage
			}
		}
		if len(fields) == 0 {
			return nil
		}

		now := s.now().UTC()
		fields["updated_at"] = now
		if err := repo.Update(ctx, order.ID, fields); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		result.Changed = true

		if update.Status == enums.OrderStatusApproved && result.Previous != enums.OrderStatusApproved {
			claimed, err := repo.ClaimPaidNotification(ctx, order.ID, now)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claim paid notification")
			}
			result.Notify = claimed
		}

		reloaded, err := repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		result.Order = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func sameTransaction(order *models.Order, transactionID string) bool {
	return order.GatewayTransactionID != nil && *order.GatewayTransactionID == transactionID
}
