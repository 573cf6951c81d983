package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/furiarock-backend/api/controllers"
	webhookcontrollers "github.com/angelmondragon/furiarock-backend/api/controllers/webhooks"
	"github.com/angelmondragon/furiarock-backend/api/middleware"
	checkoutsvc "github.com/angelmondragon/furiarock-backend/internal/checkout"
	"github.com/angelmondragon/furiarock-backend/internal/orders"
	wompiwebhook "github.com/angelmondragon/furiarock-backend/internal/webhooks/wompi"
	"github.com/angelmondragon/furiarock-backend/pkg/config"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
	"github.com/angelmondragon/furiarock-backend/pkg/redis"
)

type webhookHandler interface {
	HandleEvent(ctx context.Context, raw []byte) wompiwebhook.Outcome
}

// Dependencies are the collaborators mounted by NewRouter. Leave Redis nil when
// no cache is configured; readiness then reports it as disabled.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency redis.IdempotencyStore
	Checkout    checkoutsvc.Service
	Orders      orders.Service
	Webhooks    webhookHandler
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.With(
			middleware.CartSession(logg),
			middleware.Idempotency(deps.Idempotency, logg),
		).Post("/create-session", controllers.CreatePaymentSession(deps.Checkout, logg))
		r.Post("/webhook", webhookcontrollers.WompiWebhook(deps.Webhooks, logg))
		r.Get("/order/{reference}", controllers.OrderByReference(deps.Orders, logg))
	})

	r.Route("/api/admin/v1/orders", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWT, logg))
		r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
		r.Get("/{orderId}", controllers.AdminGetOrder(deps.Orders, logg))
		r.Patch("/{orderId}/tracking", controllers.AdminUpdateTracking(deps.Orders, logg))
	})

	return r
}
