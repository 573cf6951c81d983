package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/furiarock-backend/internal/orders"
	"github.com/angelmondragon/furiarock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/pagination"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

type stubOrders struct {
	listFn     func(ctx context.Context, params pagination.Params, filters orders.ListFilters) (types.Page[orders.OrderSummary], error)
	getFn      func(ctx context.Context, id uuid.UUID) (*orders.OrderDetail, error)
	byRefFn    func(ctx context.Context, reference string) (*orders.OrderDetail, error)
	trackingFn func(ctx context.Context, id uuid.UUID, input orders.TrackingInput) (*orders.OrderDetail, error)
}

func (s stubOrders) GetByReference(ctx context.Context, reference string) (*orders.OrderDetail, error) {
	if s.byRefFn != nil {
		return s.byRefFn(ctx, reference)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s stubOrders) Get(ctx context.Context, id uuid.UUID) (*orders.OrderDetail, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s stubOrders) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (types.Page[orders.OrderSummary], error) {
	if s.listFn != nil {
		return s.listFn(ctx, params, filters)
	}
	return types.NewPage[orders.OrderSummary](nil, 0, params.Page, params.Limit), nil
}

func (s stubOrders) UpdateTracking(ctx context.Context, id uuid.UUID, input orders.TrackingInput) (*orders.OrderDetail, error) {
	if s.trackingFn != nil {
		return s.trackingFn(ctx, id, input)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s stubOrders) ApplyPaymentStatus(context.Context, orders.PaymentUpdate) (*orders.Transition, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not used")
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestAdminListOrdersParsesFilters(t *testing.T) {
	var gotParams pagination.Params
	var gotFilters orders.ListFilters
	svc := stubOrders{
		listFn: func(ctx context.Context, params pagination.Params, filters orders.ListFilters) (types.Page[orders.OrderSummary], error) {
			gotParams = params
			gotFilters = filters
			items := []orders.OrderSummary{{ID: uuid.New(), Reference: "ref-1", Status: enums.OrderStatusApproved}}
			return types.NewPage(items, 1, params.Page, params.Limit), nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/?page=2&limit=5&sort=asc&status=approved,declined&tracking_status[]=SHIPPED&customer_name=%20Ana%20", nil)
	resp := httptest.NewRecorder()
	AdminListOrders(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotParams.Page != 2 || gotParams.Limit != 5 {
		t.Fatalf("unexpected pagination %+v", gotParams)
	}
	if !gotFilters.SortAscending {
		t.Fatal("expected ascending sort")
	}
	if len(gotFilters.Statuses) != 2 || gotFilters.Statuses[0] != enums.OrderStatusApproved || gotFilters.Statuses[1] != enums.OrderStatusDeclined {
		t.Fatalf("unexpected statuses %v", gotFilters.Statuses)
	}
	if len(gotFilters.TrackingStatuses) != 1 || gotFilters.TrackingStatuses[0] != enums.TrackingStatusShipped {
		t.Fatalf("unexpected tracking statuses %v", gotFilters.TrackingStatuses)
	}
	if gotFilters.CustomerName != "Ana" {
		t.Fatalf("expected trimmed customer name, got %q", gotFilters.CustomerName)
	}

	var envelope struct {
		Data types.Page[orders.OrderSummary] `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].Reference != "ref-1" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdminListOrdersRejectsBadInput(t *testing.T) {
	cases := []string{
		"/?status=SHIPPED",
		"/?tracking_status=LOST",
		"/?limit=500",
		"/?page=0",
		"/?sort=sideways",
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			resp := httptest.NewRecorder()
			AdminListOrders(stubOrders{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
			if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeValidation) {
				t.Fatalf("expected VALIDATION_ERROR got %s", code)
			}
		})
	}
}

func TestAdminGetOrderValidatesID(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil), "orderId", "not-a-uuid")
	resp := httptest.NewRecorder()
	AdminGetOrder(stubOrders{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	id := uuid.New()
	svc := stubOrders{getFn: func(ctx context.Context, got uuid.UUID) (*orders.OrderDetail, error) {
		if got != id {
			t.Fatalf("unexpected id %s", got)
		}
		return &orders.OrderDetail{ID: id, Reference: "ref-2"}, nil
	}}
	req = withURLParam(httptest.NewRequest(http.MethodGet, "/"+id.String(), nil), "orderId", id.String())
	resp = httptest.NewRecorder()
	AdminGetOrder(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminUpdateTracking(t *testing.T) {
	id := uuid.New()
	var got orders.TrackingInput
	svc := stubOrders{trackingFn: func(ctx context.Context, orderID uuid.UUID, input orders.TrackingInput) (*orders.OrderDetail, error) {
		got = input
		status := input.Status
		return &orders.OrderDetail{ID: orderID, TrackingStatus: &status}, nil
	}}

	body := `{"status":"SHIPPED","tracking_number":"  GUIA-123  ","notes":"   "}`
	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body)), "orderId", id.String())
	resp := httptest.NewRecorder()
	AdminUpdateTracking(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got.Status != enums.TrackingStatusShipped {
		t.Fatalf("unexpected status %s", got.Status)
	}
	if got.TrackingNumber == nil || *got.TrackingNumber != "GUIA-123" {
		t.Fatalf("expected trimmed tracking number, got %v", got.TrackingNumber)
	}
	if got.Notes != nil {
		t.Fatalf("blank notes should be dropped, got %q", *got.Notes)
	}
}

func TestAdminUpdateTrackingRejectsUnknownStatus(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"LOST"}`)), "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminUpdateTracking(stubOrders{}, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminUpdateTrackingSurfacesStateConflict(t *testing.T) {
	svc := stubOrders{trackingFn: func(context.Context, uuid.UUID, orders.TrackingInput) (*orders.OrderDetail, error) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "tracking requires an approved order")
	}}
	req := withURLParam(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"PREPARING"}`)), "orderId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminUpdateTracking(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("expected STATE_CONFLICT got %s", code)
	}
}
