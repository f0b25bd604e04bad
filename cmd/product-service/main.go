// The product service serves the catalog. Reads are public; writes require
// an ADMIN session verified remotely against the auth service.
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

	authmodels "github.com/PorePranav/CloudCart/internal/auth/models"
	"github.com/PorePranav/CloudCart/internal/identity"
	"github.com/PorePranav/CloudCart/internal/platform/config"
	"github.com/PorePranav/CloudCart/internal/platform/httpserver"
	"github.com/PorePranav/CloudCart/internal/platform/logger"
	"github.com/PorePranav/CloudCart/internal/platform/middleware"
	"github.com/PorePranav/CloudCart/internal/platform/postgres"
	producthandler "github.com/PorePranav/CloudCart/internal/product/handler"
	productservice "github.com/PorePranav/CloudCart/internal/product/service"
	productstore "github.com/PorePranav/CloudCart/internal/product/store"
)

func main() {
	cfg := config.ProductFromEnv()
	log := logger.New("product-service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	verifier := identity.NewVerifier(cfg.AuthVerifyURL, cfg.VerifyTimeout, log)
	svc := productservice.New(productstore.NewPostgres(pool))
	h := producthandler.New(svc, log)

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
	r.Route("/api/v1/products", func(r chi.Router) {
		h.Register(r,
			identity.RequireAuth(verifier, log),
			identity.RequireRole(authmodels.RoleAdmin),
		)
	})

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("product service listening", "addr", cfg.Addr)
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
		log.Error("product service exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("product service stopped")
}
