// The cart service keeps per-user carts in Redis. Every route requires a
// session verified remotely against the auth service.
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

	carthandler "github.com/PorePranav/CloudCart/internal/cart/handler"
	cartservice "github.com/PorePranav/CloudCart/internal/cart/service"
	cartstore "github.com/PorePranav/CloudCart/internal/cart/store"
	"github.com/PorePranav/CloudCart/internal/identity"
	"github.com/PorePranav/CloudCart/internal/platform/config"
	"github.com/PorePranav/CloudCart/internal/platform/httpserver"
	"github.com/PorePranav/CloudCart/internal/platform/logger"
	"github.com/PorePranav/CloudCart/internal/platform/middleware"
	"github.com/PorePranav/CloudCart/internal/platform/redis"
)

func main() {
	cfg := config.CartFromEnv()
	log := logger.New("cart-service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	verifier := identity.NewVerifier(cfg.AuthVerifyURL, cfg.VerifyTimeout, log)
	svc := cartservice.New(cartstore.NewRedis(client))
	h := carthandler.New(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(log), middleware.Recovery(log))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := client.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Route("/api/v1/cart", func(r chi.Router) {
		h.Register(r, identity.RequireAuth(verifier, log))
	})

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("cart service listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("cart service exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("cart service stopped")
}
