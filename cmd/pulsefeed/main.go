package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	pfhttp "github.com/pulsefeed/pulsefeed/internal/adapter/http"
	"github.com/pulsefeed/pulsefeed/internal/adapter/memory"
	pfnats "github.com/pulsefeed/pulsefeed/internal/adapter/nats"
	"github.com/pulsefeed/pulsefeed/internal/adapter/otel"
	"github.com/pulsefeed/pulsefeed/internal/adapter/ristretto"
	"github.com/pulsefeed/pulsefeed/internal/adapter/ws"
	"github.com/pulsefeed/pulsefeed/internal/bus"
	"github.com/pulsefeed/pulsefeed/internal/config"
	"github.com/pulsefeed/pulsefeed/internal/domain/tenant"
	"github.com/pulsefeed/pulsefeed/internal/logger"
	"github.com/pulsefeed/pulsefeed/internal/middleware"
	"github.com/pulsefeed/pulsefeed/internal/registry"
	"github.com/pulsefeed/pulsefeed/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"tenants", cfg.Tenants,
		"max_events", cfg.Feed.MaxEvents,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	// --- Telemetry ---
	shutdownMetrics, err := otel.Setup(ctx, cfg.Telemetry.Endpoint, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownMetrics(sctx)
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("otel instruments: %w", err)
	}

	// --- Core ---
	catalog := tenant.NewCatalog(cfg.Tenants)
	store := memory.NewEventLog(catalog, cfg.Feed.MaxEvents)
	announce := bus.New()
	reg := registry.New(catalog)

	feed := service.NewFeed(catalog, store, announce, metrics, cfg.Feed.MaxMessageLen)
	service.NewDispatcher(reg, metrics, cfg.Feed.DeliveryTimeout).Start(announce)

	// --- Optional JetStream relay ---
	if cfg.NATS.URL != "" {
		relay, rerr := pfnats.Connect(ctx, cfg.NATS.URL)
		if rerr != nil {
			return fmt.Errorf("nats: %w", rerr)
		}
		defer func() { _ = relay.Close() }()
		relay.Start(announce)
	}

	// --- HTTP boundary ---
	idemCache, err := ristretto.New(cfg.Idempotency.CacheSizeMB * 1024 * 1024)
	if err != nil {
		return fmt.Errorf("idempotency cache: %w", err)
	}
	defer idemCache.Close()

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	wsHandler := ws.NewHandler(catalog, reg, store, metrics, cfg.Feed.ReplayCount, cfg.Feed.DeliveryTimeout)
	handlers := pfhttp.NewHandlers(catalog, feed, store, reg, cfg.Feed.DefaultListLimit, cfg.Feed.MaxListLimit)

	r := chi.NewRouter()
	r.Use(pfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(pfhttp.SecurityHeaders)
	r.Use(pfhttp.Logger)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))

	r.Get("/ws", wsHandler.Subscribe)

	// The API routes get a request timeout; /ws cannot, its connections are
	// long-lived.
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		handlers.MountRoutes(r,
			limiter.Handler,
			middleware.Idempotency(idemCache, cfg.Idempotency.TTL),
		)
	})

	if cfg.Server.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
