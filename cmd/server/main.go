package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"traceability/internal/platform/config"
	"traceability/internal/platform/httpserver"
	"traceability/internal/platform/logger"
	"traceability/internal/trace"
	"traceability/internal/trace/codec"
	"traceability/internal/trace/service"
	"traceability/internal/trace/store"
	eventstore "traceability/internal/trace/store/event"
	"traceability/pkg/platform/middleware/requesttime"
)

// main wires the audit-trail read service over the shared store. The write
// path (registries and emitter) is consumed in process by domain services;
// it has no HTTP surface here.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	var events service.EventStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := store.Migrate(db); err != nil {
			log.Error("migrate database", "error", err)
			os.Exit(1)
		}
		events = eventstore.NewPostgres(db)
	} else {
		log.Warn("no TRACE_DATABASE_URL set, using an in-memory event store")
		events = eventstore.NewInMemory()
	}

	query := trace.NewQuery(events, codec.JSON{}, service.WithLogger(log))

	router := chi.NewRouter()
	router.Use(requesttime.Middleware)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	trace.NewHandler(query, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting traceability server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
