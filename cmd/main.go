package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/sitefleet/internal/auth"
	"github.com/ukydev/sitefleet/internal/config"
	"github.com/ukydev/sitefleet/internal/db"
	"github.com/ukydev/sitefleet/internal/events"
	"github.com/ukydev/sitefleet/internal/metrics"
	"github.com/ukydev/sitefleet/internal/middleware"
	"github.com/ukydev/sitefleet/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := db.Open(ctx, storeOptions(cfg))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.WithError(err).Warn("failed to close storage")
		}
	}()
	log.WithField("driver", cfg.Storage.Driver).Info("storage connected")

	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	if err := authService.EnsureAdmin(ctx, store.Users, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return err
	}

	m := metrics.New()
	publisher := newPublisher(cfg.MQTT, m)
	defer publisher.Close()

	limiter := middleware.NewRateLimitMiddleware(cfg.RateLimit.Requests, cfg.RateLimit.Window())
	limiter.TrustProxy = cfg.RateLimit.TrustProxy
	go sweep(ctx, limiter, cfg.RateLimit.Window())

	srv := server.New(cfg.Server.Port, server.Deps{
		Store:       store,
		Auth:        authService,
		Publisher:   publisher,
		Metrics:     m,
		RateLimiter: limiter,
		Currency:    cfg.Display.Currency,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server shutdown complete")
	return nil
}

func storeOptions(cfg *config.Config) db.Options {
	return db.Options{
		Driver:        cfg.Storage.Driver,
		MongoURI:      cfg.Mongo.URI,
		MongoDatabase: cfg.Mongo.Database,
		PostgresDSN:   cfg.Postgres.DSN,
	}
}

// newPublisher connects to the configured broker. Change events are optional,
// so a missing or unreachable broker yields a publisher that drops them.
func newPublisher(cfg config.MQTTConfig, m *metrics.Metrics) events.Publisher {
	if cfg.Broker == "" {
		log.Info("mqtt broker not configured, change events disabled")
		return events.NopPublisher{}
	}
	p, err := events.NewMQTTPublisher(events.MQTTOptions{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Topic:    cfg.Topic,
	})
	if err != nil {
		log.WithError(err).Warn("mqtt broker unreachable, change events disabled")
		return events.NopPublisher{}
	}
	p.Observe = m.EventPublished
	log.WithFields(log.Fields{"broker": cfg.Broker, "topic": cfg.Topic}).Info("publishing change events")
	return p
}

func sweep(ctx context.Context, limiter *middleware.RateLimitMiddleware, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			limiter.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
