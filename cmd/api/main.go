package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/spa-storefront/api/routes"
	"github.com/angelmondragon/spa-storefront/internal/cart"
	"github.com/angelmondragon/spa-storefront/internal/catalog"
	"github.com/angelmondragon/spa-storefront/internal/checkout"
	"github.com/angelmondragon/spa-storefront/pkg/config"
	"github.com/angelmondragon/spa-storefront/pkg/instance"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
	"github.com/angelmondragon/spa-storefront/pkg/metrics"
	"github.com/angelmondragon/spa-storefront/pkg/stripe"
)

const shutdownTimeout = 10 * time.Second

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

	kv, closeStorage, err := openStorage(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cart storage", err)
		os.Exit(1)
	}
	defer closeStorage()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	cartMetrics := metrics.NewCartMetrics(registry)

	cartStore, err := cart.NewStore(kv, logg, cartMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}

	products, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	provider := checkoutProvider(ctx, cfg, logg)
	checkoutService, err := checkout.NewService(cartStore, provider, cfg.Checkout.Currency, logg, cartMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Storage.Backend,
		"checkout": provider.Name(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, registry, cartStore, products, checkoutService),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(logCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(logCtx, "api server stopped")
}

func checkoutProvider(ctx context.Context, cfg *config.Config, logg *logger.Logger) checkout.Provider {
	if !cfg.Stripe.Enabled() {
		logg.Warn(ctx, "no payment provider configured, checkout disabled")
		return checkout.UnavailableProvider{}
	}
	client, err := stripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		logg.Error(ctx, "failed to initialize stripe", err)
		os.Exit(1)
	}
	return checkout.NewStripeProvider(client, cfg.Checkout.SuccessURL, cfg.Checkout.CancelURL)
}
