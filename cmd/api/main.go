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
	"go.uber.org/multierr"

	"github.com/sgiraldob/vitrina-backend/api/routes"
	"github.com/sgiraldob/vitrina-backend/internal/cartsession"
	"github.com/sgiraldob/vitrina-backend/internal/orders"
	"github.com/sgiraldob/vitrina-backend/internal/payments"
	"github.com/sgiraldob/vitrina-backend/internal/tenants"
	"github.com/sgiraldob/vitrina-backend/pkg/auth/session"
	"github.com/sgiraldob/vitrina-backend/pkg/config"
	"github.com/sgiraldob/vitrina-backend/pkg/db"
	"github.com/sgiraldob/vitrina-backend/pkg/logger"
	"github.com/sgiraldob/vitrina-backend/pkg/mercadopago"
	"github.com/sgiraldob/vitrina-backend/pkg/metrics"
	"github.com/sgiraldob/vitrina-backend/pkg/migrate"
	"github.com/sgiraldob/vitrina-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gatewayClient, err := mercadopago.NewClient(context.Background(), cfg.Gateway, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create gateway client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	gatewayMetrics := metrics.NewGatewayMetrics(registry)

	tenantsSvc, err := tenants.NewService(tenants.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create tenants service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersSvc, err := orders.NewService(ordersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	carts, err := cartsession.NewService(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart session index", err)
		os.Exit(1)
	}

	bridge, err := payments.NewService(ordersSvc, gatewayClient, ordersRepo, gatewayMetrics, cfg.App.PublicURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment bridge", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, sessionManager,
			registry, httpMetrics,
			tenantsSvc, ordersSvc, carts, bridge,
		),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs error
		errs = multierr.Append(errs, server.Shutdown(shutdownCtx))
		errs = multierr.Append(errs, redisClient.Close())
		errs = multierr.Append(errs, dbClient.Close())
		if errs != nil {
			logg.Error(ctx, "shutdown finished with errors", errs)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
