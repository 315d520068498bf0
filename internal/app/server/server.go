package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"mpadmin/internal/domain/audit"
	"mpadmin/internal/domain/core"
	"mpadmin/internal/domain/retention"
	"mpadmin/internal/platform/config"
	"mpadmin/internal/platform/db"
	"mpadmin/internal/platform/jobs"
	"mpadmin/internal/platform/metrics"
	retentionhandler "mpadmin/internal/transport/http/handlers/retention"
	"mpadmin/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Sweeper *jobs.Scheduler

	cancel context.CancelFunc
}

// New wires the application: database, retention engine, purge sweeper and
// HTTP surface. Close releases everything New started.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}

	userStore := core.NewStore(pool)
	retentionStore := retention.NewStore(pool)
	auditSvc := audit.New(pool)

	resolver := retention.NewResolver(retention.Defaults{
		BusinessDataDays: cfg.BusinessDataRetentionDays,
		AuditDataDays:    cfg.AuditRetentionDays,
		RetractionDays:   cfg.RetractionWindowDays,
	})

	engine := retention.NewService(userStore, retentionStore, retentionStore, resolver, auditSvc)
	engine.Throttle = cfg.BulkThrottle

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	purger := jobs.NewPurger(retentionStore, retentionStore, userStore)
	sweeper := jobs.NewScheduler(purger, cfg.PurgeSweepSchedule, collector)
	if err := sweeper.Start(sweepCtx); err != nil {
		cancel()
		pool.Close()
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		retentionhandler.NewHandler(engine, collector).RegisterRoutes(r)
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Sweeper: sweeper,
		cancel:  cancel,
	}, nil
}

func (a *App) Close() {
	a.cancel()
	a.Sweeper.Stop()
	a.DB.Close()
}

func Run() {
	cfg := config.Load()

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("marketplace console API listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
