package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/furiarock-backend/api/middleware"
	"github.com/angelmondragon/furiarock-backend/api/responses"
	"github.com/angelmondragon/furiarock-backend/api/validators"
	"github.com/angelmondragon/furiarock-backend/internal/orders"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/pagination"
)

const (
	maxSearchLen = 100
	maxPage      = 10000
)

// AdminListOrders returns a filtered, paginated page of order summaries.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), pagination.Params{Page: page, Limit: limit}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseListFilters(r *http.Request) (orders.ListFilters, error) {
	query := r.URL.Query()
	filters := orders.ListFilters{
		CustomerName:  validators.SanitizeString(query.Get("customer_name"), maxSearchLen),
		CustomerEmail: validators.SanitizeString(query.Get("customer_email"), maxSearchLen),
	}

	asc, err := validators.ParseSortOrder(r, "sort")
	if err != nil {
		return filters, err
	}
	filters.SortAscending = asc

	for _, raw := range validators.ParseQueryList(r, "status") {
		status, err := enums.ParseOrderStatus(strings.ToUpper(raw))
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter").WithDetails(map[string]any{"field": "status", "value": raw})
		}
		filters.Statuses = append(filters.Statuses, status)
	}
	for _, raw := range validators.ParseQueryList(r, "tracking_status") {
		status, err := enums.ParseTrackingStatus(strings.ToUpper(raw))
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tracking_status filter").WithDetails(map[string]any{"field": "tracking_status", "value": raw})
		}
		filters.TrackingStatuses = append(filters.TrackingStatuses, status)
	}
	return filters, nil
}

// AdminGetOrder returns the full detail of one order.
func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type trackingRequest struct {
	Status         string  `json:"status" validate:"required,oneof=PREPARING SHIPPED DELIVERED"`
	TrackingNumber *string `json:"tracking_number" validate:"omitempty,max=100"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
}

// AdminUpdateTracking records fulfillment progress for an approved order.
func AdminUpdateTracking(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload trackingRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{
				"order_id":        orderID.String(),
				"tracking_status": payload.Status,
				"admin":           middleware.AdminSubjectFromContext(ctx),
			})
		}
		detail, err := svc.UpdateTracking(ctx, orderID, orders.TrackingInput{
			Status:         enums.TrackingStatus(payload.Status),
			TrackingNumber: trimmedOrNil(payload.TrackingNumber, 100),
			Notes:          trimmedOrNil(payload.Notes, 1000),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(ctx, "order tracking updated")
		}
		responses.WriteSuccess(w, detail)
	}
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

func trimmedOrNil(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	v := validators.SanitizeString(*value, maxLen)
	if v == "" {
		return nil
	}
	return &v
}
