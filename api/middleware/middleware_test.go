package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	pkgauth "github.com/angelmondragon/furiarock-backend/pkg/auth"
	"github.com/angelmondragon/furiarock-backend/pkg/config"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminAuth(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "furia-rock", AdminTokenTTL: time.Hour}
	token, err := pkgauth.MintAdminToken(cfg, time.Now(), "ops@furia-rock.com")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	var subject string
	handler := AdminAuth(cfg, logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = AdminSubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer invalid", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.status, resp.Code)
		}
	}
	if subject != "ops@furia-rock.com" {
		t.Fatalf("subject not propagated: %q", subject)
	}
}

func TestCartSessionRequiresHeader(t *testing.T) {
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	long := httptest.NewRequest(http.MethodPost, "/", nil)
	long.Header.Set(sessionIDHeader, strings.Repeat("x", maxSessionIDLen+1))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, long)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for long header got %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(sessionIDHeader, " sess-42 ")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "sess-42" {
		t.Fatalf("session id = %q", seen)
	}
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	handler := RequestID(logger.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Header().Get(requestIDHeader) != "req-1" {
		t.Fatalf("expected propagated id, got %q", resp.Header().Get(requestIDHeader))
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(resp.Header().Get(requestIDHeader)) != 36 {
		t.Fatalf("expected minted uuid, got %q", resp.Header().Get(requestIDHeader))
	}
}

func TestRecovererRendersInternalError(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "boom") {
		t.Fatal("panic value must not leak")
	}
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(Metrics(metrics.NewHTTPMetrics(reg)))
	r.Get("/api/v1/payments/order/{reference}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, ref := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/payments/order/"+ref, nil))
	}

	count, err := testutil.GatherAndCount(reg, "furia_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single route series, got %d", count)
	}
}
