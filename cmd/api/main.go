package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/ordering-engine/api/routes"
	"github.com/angelmondragon/ordering-engine/internal/quantity"
	"github.com/angelmondragon/ordering-engine/internal/session"
	"github.com/angelmondragon/ordering-engine/pkg/config"
	"github.com/angelmondragon/ordering-engine/pkg/instance"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
	"github.com/angelmondragon/ordering-engine/pkg/metrics"
	"github.com/angelmondragon/ordering-engine/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "ordering-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "ordering-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(runCtx, cfg, logg)
	stop()
	if err != nil {
		logg.Error(context.Background(), "ordering api stopped", err)
		os.Exit(1)
	}
}

// run serves until runCtx is done. Every resource acquired here is released
// before it returns.
func run(runCtx context.Context, cfg *config.Config, logg *logger.Logger) error {
	var closers closerSet
	defer func() {
		if closeErr := closers.Close(); closeErr != nil {
			logg.Error(context.Background(), "error releasing resources", closeErr)
		}
	}()

	var (
		redisPinger      redis.Pinger
		idempotencyStore redis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(runCtx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		closers.Add("redis", redisClient.Close)
		redisPinger = redisClient
		idempotencyStore = redisClient
	} else {
		logg.Warn(runCtx, "redis not configured, order idempotency disabled")
	}

	cat, err := loadCatalog(runCtx, cfg.Catalog, logg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	submitter, err := buildSubmitter(runCtx, cfg.Orders, logg, &closers)
	if err != nil {
		return fmt.Errorf("build order submitter: %w", err)
	}

	deliveryFee, err := cfg.Cart.DeliveryFeeAmount()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	registry, err := session.NewRegistry(session.RegistryParams{
		Catalog: cat,
		Settings: session.Settings{
			DeliveryFee:     deliveryFee,
			Bounds:          quantity.Bounds{Min: cfg.Quantity.Min, Max: cfg.Quantity.Max},
			DefaultQuantity: cfg.Quantity.Default,
		},
		Submitter:     submitter,
		Sink:          cfg.Orders.Sink,
		Logger:        logg,
		Metrics:       metrics.NewOrderingMetrics(reg),
		IdleTTL:       cfg.Session.IdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
	})
	if err != nil {
		return fmt.Errorf("build session registry: %w", err)
	}

	sweepCtx, stopSweep := context.WithCancel(runCtx)
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		registry.Run(sweepCtx)
	}()
	closers.Add("session sweeper", func() error {
		stopSweep()
		<-sweepDone
		return nil
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":              cfg.App.Env,
		"addr":             addr,
		"catalog_items":    cat.Len(),
		"orders_sink":      cfg.Orders.Sink,
		"instance":         instance.GetID(),
		"session_idle_ttl": cfg.Session.IdleTTL.String(),
	})
	logg.Info(ctx, "starting ordering api")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, registry, redisPinger, idempotencyStore, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server stopped unexpectedly: %w", err)
		}
		return nil
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down ordering api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	}
}
