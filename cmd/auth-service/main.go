// The auth service owns identities: it registers users, issues session
// tokens, verifies tokens for the other services, and publishes
// user.created events for downstream consumers.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	authhandler "github.com/PorePranav/CloudCart/internal/auth/handler"
	authmetrics "github.com/PorePranav/CloudCart/internal/auth/metrics"
	authservice "github.com/PorePranav/CloudCart/internal/auth/service"
	authstore "github.com/PorePranav/CloudCart/internal/auth/store"
	"github.com/PorePranav/CloudCart/internal/auth/token"
	"github.com/PorePranav/CloudCart/internal/event"
	"github.com/PorePranav/CloudCart/internal/platform/config"
	"github.com/PorePranav/CloudCart/internal/platform/httpserver"
	"github.com/PorePranav/CloudCart/internal/platform/kafka"
	"github.com/PorePranav/CloudCart/internal/platform/logger"
	"github.com/PorePranav/CloudCart/internal/platform/middleware"
	"github.com/PorePranav/CloudCart/internal/platform/postgres"
)

func main() {
	cfg := config.AuthFromEnv()
	log := logger.New("auth-service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	producer, err := kafka.NewProducer(ctx, cfg.Brokers)
	if err != nil {
		log.Error("kafka connect failed", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	publisher := event.NewPublisher(producer, cfg.UserTopic, cfg.EventBuffer, log, event.NewMetrics(registry))

	svc := authservice.New(
		authstore.NewPostgres(pool),
		token.NewCodec(cfg.JWTSigningKey, cfg.TokenTTL),
		publisher,
		log,
		authmetrics.New(registry),
		authservice.WithBcryptCost(cfg.BcryptCost),
	)
	h := authhandler.New(svc, log, cfg.AdminAPIKey, cfg.Production)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(log), middleware.Recovery(log))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Route("/api/v1/auth", h.Register)

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("auth service listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := publisher.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("auth service exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("auth service stopped")
}
