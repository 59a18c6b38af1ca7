// Command api starts the historical events HTTP service.
//
// The service stores historical-event records in PostgreSQL and exposes
// read endpoints plus an ingestion endpoint that pulls a year summary from
// Wikipedia, asks the OpenAI API for an annotated narrative, and persists
// the combined record. Ingested records are optionally announced on Kafka.
//
// Usage:
//
//	go run ./cmd/api [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/enrichment"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events/handler"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events/notify"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events/store"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/wikipedia"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/postgres"
)

// main loads configuration, wires the store, the two upstream clients and the
// HTTP surface, and runs the API and metrics servers until SIGINT/SIGTERM.
// A down event store is logged but does not abort startup; requests that need
// it fail individually until it returns.
func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting historical events service", "port", cfg.Server.Port)

	m := metrics.New()

	db, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to open postgres pool", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	eventStore := store.NewPostgres(db)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Ping(pingCtx); err != nil {
		slog.Warn("event store unreachable, continuing anyway", "error", err)
	} else {
		slog.Info("connected to event store")
		if err := eventStore.EnsureSchema(pingCtx); err != nil {
			slog.Warn("failed to ensure events schema", "error", err)
		}
	}
	cancel()

	var notifier events.Notifier
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		notifier = notify.NewKafka(producer)
		slog.Info("kafka producer initialized", "topic", cfg.Kafka.Topic)
	}

	wiki := wikipedia.New(cfg.Wikipedia, m)
	enricher := enrichment.New(cfg.OpenAI, m)
	svc := events.NewService(wiki, enricher, eventStore, notifier, m)
	h := handler.New(svc)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := db.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	mux := http.NewServeMux()
	h.Routes(mux)
	mux.HandleFunc("GET /health", checker.Handler())

	// Middleware chain — applied inside-out:
	// request → RequestID → Metrics → Timeout → mux
	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var shutdownMetrics func(context.Context) error
	if cfg.Metrics.Enabled {
		shutdownMetrics = metrics.StartServer(cfg.Metrics.Port)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("api listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if shutdownMetrics != nil {
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("historical events service stopped")
}
