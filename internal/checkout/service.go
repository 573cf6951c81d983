package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/furiarock-backend/pkg/config"
	"github.com/angelmondragon/furiarock-backend/pkg/db"
	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

const (
	// Colombia only: the storefront never asks for these.
	phoneNumberPrefix = "57"
	shippingCountry   = "CO"

	referenceConstraint = "orders_reference_key"
	maxReferenceTries   = 2
)

type cartReader interface {
	FindActiveBySession(ctx context.Context, sessionID string) (*models.Cart, error)
}

type snapshotBuilder interface {
	Build(ctx context.Context, items []models.CartItem) (*types.CartSnapshot, error)
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) error
}

type integritySigner interface {
	IntegritySignature(reference string, amountInCents int64, currency string) string
}

// Service turns a session cart into a pending order plus signed widget parameters.
type Service interface {
	CreateSession(ctx context.Context, sessionID string, input SessionInput) (*Session, error)
}

type ServiceParams struct {
	Carts     cartReader
	Snapshots snapshotBuilder
	Orders    orderWriter
	Signer    integritySigner
	Payments  config.PaymentsConfig
	Metrics   *metrics.PaymentMetrics
	Logger    *logger.Logger
	Now       func() time.Time
	// NewReference defaults to random UUIDv4 strings.
	NewReference func() string
}

type service struct {
	carts     cartReader
	snapshots snapshotBuilder
	orders    orderWriter
	signer    integritySigner
	payments  config.PaymentsConfig
	currency  enums.Currency
	metrics   *metrics.PaymentMetrics
	logg      *logger.Logger
	now       func() time.Time
	reference func() string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot builder required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if params.Signer == nil {
		return nil, fmt.Errorf("integrity signer required")
	}
	if params.Payments.PublicKey == "" {
		return nil, fmt.Errorf("payment public key required")
	}
	currency := enums.Currency(strings.ToUpper(strings.TrimSpace(params.Payments.Currency)))
	if currency == "" {
		currency = enums.CurrencyCOP
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("unsupported checkout currency %q", params.Payments.Currency)
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	ref := params.NewReference
	if ref == nil {
		ref = uuid.NewString
	}
	return &service{
		carts:     params.Carts,
		snapshots: params.Snapshots,
		orders:    params.Orders,
		signer:    params.Signer,
		payments:  params.Payments,
		currency:  currency,
		metrics:   params.Metrics,
		logg:      logg,
		now:       now,
		reference: ref,
	}, nil
}

func (s *service) CreateSession(ctx context.Context, sessionID string, input SessionInput) (*Session, error) {
	session, err := s.createSession(ctx, sessionID, input)
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error creating payment session")
		}
		code := pkgerrors.CodeOf(err)
		s.metrics.CheckoutSession(string(code))
		logCtx := s.logg.WithField(ctx, "session_id", sessionID)
		if pkgerrors.MetadataFor(code).HTTPStatus >= 500 {
			s.logg.Error(logCtx, "checkout session failed", err)
		} else {
			s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "checkout session rejected")
		}
		return nil, err
	}
	s.metrics.CheckoutSession("created")
	return session, nil
}

func (s *service) createSession(ctx context.Context, sessionID string, input SessionInput) (*Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	cart, err := s.carts.FindActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	snapshot, err := s.snapshots.Build(ctx, cart.Items)
	if err != nil {
		return nil, err
	}
	amount := snapshot.AmountInCents()
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "invalid cart total amount").
			WithDetails(map[string]any{"amount_in_cents": amount})
	}

	customer := input.CustomerData
	customer.Email = strings.TrimSpace(customer.Email)
	customer.PhoneNumberPrefix = phoneNumberPrefix
	shipping := input.ShippingAddress
	shipping.Country = shippingCountry

	now := s.now().UTC()
	expiresAt := now.Add(s.payments.CheckoutTTL)
	order := &models.Order{
		SessionID:       sessionID,
		Status:          enums.OrderStatusPending,
		AmountInCents:   amount,
		Currency:        s.currency,
		CustomerEmail:   customer.Email,
		CustomerName:    strings.TrimSpace(customer.FullName),
		CustomerData:    customer,
		ShippingAddress: shipping,
		CollectShipping: input.CollectShipping,
		CartSnapshot:    *snapshot,
		ExpiresAt:       &expiresAt,
	}

	var signature, checkoutURL string
	for attempt := 1; ; attempt++ {
		order.ID = uuid.Nil
		order.Reference = s.reference()
		signature = s.signer.IntegritySignature(order.Reference, amount, string(s.currency))
		checkoutURL = s.hostedCheckoutURL(order.Reference, amount, signature)
		if checkoutURL != "" {
			order.CheckoutURL = &checkoutURL
		}

		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !db.IsUniqueViolation(err, referenceConstraint) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
		}
		if attempt >= maxReferenceTries {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "could not allocate order reference")
		}
		s.logg.Warn(s.logg.WithReference(ctx, order.Reference), "order reference collision, retrying")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"reference":       order.Reference,
		"order_id":        order.ID.String(),
		"amount_in_cents": amount,
		"currency":        string(s.currency),
	})
	s.logg.Info(logCtx, "payment session created")

	return &Session{
		PublicKey:     s.payments.PublicKey,
		Currency:      s.currency,
		AmountInCents: amount,
		Reference:     order.Reference,
		Signature:     signature,
		RedirectURL:   s.payments.RedirectURL,
		CheckoutURL:   checkoutURL,
		CustomerEmail: customer.Email,
		CustomerData: SessionCustomer{
			FullName:          customer.FullName,
			PhoneNumber:       customer.PhoneNumber,
			PhoneNumberPrefix: customer.PhoneNumberPrefix,
			LegalID:           customer.LegalID,
			LegalIDType:       customer.LegalIDType,
		},
		ShippingAddress: shipping,
		OrderID:         order.ID,
	}, nil
}

// hostedCheckoutURL builds the redirect variant of the widget parameters.
func (s *service) hostedCheckoutURL(reference string, amount int64, signature string) string {
	base := strings.TrimSpace(s.payments.CheckoutURL)
	if base == "" {
		return ""
	}
	q := url.Values{}
	q.Set("public-key", s.payments.PublicKey)
	q.Set("currency", string(s.currency))
	q.Set("amount-in-cents", strconv.FormatInt(amount, 10))
	q.Set("reference", reference)
	q.Set("signature:integrity", signature)
	if s.payments.RedirectURL != "" {
		q.Set("redirect-url", s.payments.RedirectURL)
	}
	return base + "?" + q.Encode()
}
