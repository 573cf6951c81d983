package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/furiarock-backend/api/routes"
	"github.com/angelmondragon/furiarock-backend/internal/cart"
	"github.com/angelmondragon/furiarock-backend/internal/catalog"
	"github.com/angelmondragon/furiarock-backend/internal/checkout"
	"github.com/angelmondragon/furiarock-backend/internal/checkout/snapshot"
	"github.com/angelmondragon/furiarock-backend/internal/notifications"
	"github.com/angelmondragon/furiarock-backend/internal/orders"
	wompiwebhook "github.com/angelmondragon/furiarock-backend/internal/webhooks/wompi"
	"github.com/angelmondragon/furiarock-backend/pkg/config"
	"github.com/angelmondragon/furiarock-backend/pkg/db"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/metrics"
	"github.com/angelmondragon/furiarock-backend/pkg/migrate"
	"github.com/angelmondragon/furiarock-backend/pkg/redis"
	"github.com/angelmondragon/furiarock-backend/pkg/wompi"
)

const (
	webhookDedupeScope = "wompi-events"
	shutdownTimeout    = 15 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	deps := routes.Dependencies{DB: dbClient}
	var webhookGuard *wompiwebhook.IdempotencyGuard
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		deps.Redis = redisClient
		deps.Idempotency = redisClient

		webhookGuard, err = wompiwebhook.NewIdempotencyGuard(redisClient, cfg.Webhooks.DedupeTTL, webhookDedupeScope)
		if err != nil {
			logg.Error(ctx, "failed to create webhook guard", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "redis not configured; request idempotency and webhook dedupe disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	paymentMetrics := metrics.NewPaymentMetrics(registry)
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)
	deps.Gatherer = registry

	conn := dbClient.DB()
	builder, err := snapshot.NewBuilder(
		catalog.NewProductRepository(conn),
		catalog.NewColorRepository(conn),
		catalog.NewQualityRepository(conn),
		logg,
	)
	requireService(ctx, logg, "snapshot builder", err)

	orderRepo := orders.NewRepository(conn)
	deps.Checkout, err = checkout.NewService(checkout.ServiceParams{
		Carts:     cart.NewRepository(conn),
		Snapshots: builder,
		Orders:    orderRepo,
		Signer:    wompi.NewSigner(cfg.Payments.IntegritySecret),
		Payments:  cfg.Payments,
		Metrics:   paymentMetrics,
		Logger:    logg,
	})
	requireService(ctx, logg, "checkout service", err)

	deps.Orders, err = orders.NewService(orders.ServiceParams{Repo: orderRepo, Tx: dbClient})
	requireService(ctx, logg, "orders service", err)

	emailSender, err := notifications.NewEmailSenderFromConfig(ctx, cfg.SMTP, logg)
	requireService(ctx, logg, "email sender", err)
	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Alerts:        notifications.NewTelegramAlerterFromConfig(ctx, cfg.Telegram, logg),
		Confirmations: emailSender,
		Metrics:       paymentMetrics,
		Logger:        logg,
	})
	requireService(ctx, logg, "notification dispatcher", err)

	verifier := wompi.NewVerifier(cfg.Payments.EventsSecret, cfg.Payments.AllowUnverifiedEvents)
	switch {
	case verifier.Mode() == wompi.VerificationDisabled:
		logg.Warn(ctx, "wompi events secret missing; accepting unverified webhook events")
	case cfg.Payments.EventsSecret == "":
		logg.Warn(ctx, "wompi events secret missing; every webhook event will be rejected")
	}
	webhookParams := wompiwebhook.ServiceParams{
		Orders:   deps.Orders,
		Verifier: verifier,
		Notifier: dispatcher,
		Metrics:  paymentMetrics,
		Logger:   logg,
	}
	if webhookGuard != nil {
		webhookParams.Guard = webhookGuard
	}
	deps.Webhooks, err = wompiwebhook.NewService(webhookParams)
	requireService(ctx, logg, "webhook service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(shutdownCtx, "api server shutting down gracefully")
	}
}

func requireService(ctx context.Context, logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to create "+name, err)
	os.Exit(1)
}
