// The notification service consumes user events from the broker and sends
// transactional email. It joins the topic under its own consumer group so
// it receives every event regardless of other subscribers.
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

	"github.com/PorePranav/CloudCart/internal/notification"
	"github.com/PorePranav/CloudCart/internal/notification/mailer"
	notifmetrics "github.com/PorePranav/CloudCart/internal/notification/metrics"
	"github.com/PorePranav/CloudCart/internal/platform/config"
	"github.com/PorePranav/CloudCart/internal/platform/httpserver"
	"github.com/PorePranav/CloudCart/internal/platform/kafka"
	"github.com/PorePranav/CloudCart/internal/platform/logger"
	"github.com/PorePranav/CloudCart/internal/platform/middleware"
)

func main() {
	cfg := config.NotificationFromEnv()
	log := logger.New("notification-service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m mailer.Mailer
	if cfg.SMTPUser != "" {
		m = mailer.NewSMTP(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		log.Warn("SMTP_USER not set, logging email instead of sending")
		m = mailer.NewLog(log)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := notification.NewEventHandler(m, cfg.DashboardURL, log, notifmetrics.New(registry))

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Brokers,
		Group:   cfg.ConsumerGroup,
		Topic:   cfg.UserTopic,
	}, handler, log)
	if err != nil {
		log.Error("kafka connect failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(log), middleware.Recovery(log))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := httpserver.New(cfg.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("notification service listening", "addr", cfg.Addr,
			"group", cfg.ConsumerGroup, "topic", cfg.UserTopic)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := consumer.Run(gctx)
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
		log.Error("notification service exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("notification service stopped")
}
