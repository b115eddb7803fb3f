package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"backoffice/internal/authz"
	authzmetrics "backoffice/internal/authz/metrics"
	"backoffice/internal/directory/handler"
	"backoffice/internal/directory/service"
	"backoffice/internal/directory/store"
	"backoffice/internal/directory/store/memory"
	"backoffice/internal/directory/store/postgres"
	"backoffice/internal/events"
	"backoffice/internal/identity"
	"backoffice/internal/platform/config"
	"backoffice/internal/platform/httpserver"
	"backoffice/internal/platform/logger"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/platform/middleware"
)

// main wires the dependency graph and keeps the server lifecycle small.
// Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	users, roles, cleanup, err := buildStores(cfg, log)
	if err != nil {
		log.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	bus := events.NewBus(
		events.WithLogger(log),
		events.WithMetrics(events.NewMetrics()),
	)
	resolver := authz.NewResolver(users, roles,
		authz.WithLogger(log),
		authz.WithMetrics(authzmetrics.New()),
	)
	subscriber := authz.NewSubscriber(bus, resolver, log)
	defer subscriber.Close()

	tokens := identity.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	directory := service.New(users, roles, bus,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, log))
		guard := func(rq authz.Requirement) func(http.Handler) http.Handler {
			return middleware.RequirePermission(resolver, rq, log)
		}
		handler.New(directory, guard, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	go func() {
		log.Info("starting backoffice server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// buildStores selects postgres when DATABASE_URL is set, otherwise seeds an
// in-memory directory so the server is usable out of the box.
func buildStores(cfg config.Server, log *slog.Logger) (store.UserStore, store.RoleStore, func(), error) {
	if cfg.DatabaseURL == "" {
		users := memory.NewUserStore()
		roles := memory.NewRoleStore()
		admin, _ := store.SeedBootstrapAdmin(users, roles)
		log.Info("using in-memory stores", "admin_user_id", admin.ID, "admin_email", admin.Email)
		return users, roles, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	log.Info("using postgres stores")
	return postgres.NewUserStore(db), postgres.NewRoleStore(db), func() { _ = db.Close() }, nil
}
