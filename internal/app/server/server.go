package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/auth"
	"ems/internal/domain/directory"
	"ems/internal/domain/messaging"
	"ems/internal/domain/rbac"
	"ems/internal/domain/reports"
	"ems/internal/domain/tasks"
	"ems/internal/platform/config"
	"ems/internal/platform/db"
	"ems/internal/platform/metrics"
	"ems/internal/requestctx"
	"ems/internal/transport/http/api"
	authhandler "ems/internal/transport/http/handlers/auth"
	directoryhandler "ems/internal/transport/http/handlers/directory"
	messageshandler "ems/internal/transport/http/handlers/messages"
	reportshandler "ems/internal/transport/http/handlers/reports"
	taskshandler "ems/internal/transport/http/handlers/tasks"
	"ems/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects, migrates and seeds, then wires the router. The journey tests
// build an App against a test database the same way Run does.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, findMigrationsDir()); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &App{Config: cfg, DB: pool, Router: NewRouter(cfg, pool)}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("EMS server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// NewRouter wires the stores, services and handlers onto one chi router.
func NewRouter(cfg config.Config, pool db.Conn) http.Handler {
	engine := rbac.NewEngine(rbac.NewStore(pool))

	authService := auth.NewService(auth.NewStore(pool), cfg.AdminUsername, cfg.AdminPassword)
	directoryService := directory.NewService(directory.NewStore(pool), engine)
	tasksService := tasks.NewService(tasks.NewStore(pool), engine)
	messagingService := messaging.NewService(messaging.NewStore(pool), engine)
	reportsService := reports.NewService(reports.NewStore(pool), engine)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := pool.Exec(ctx, "SELECT 1"); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authService, cfg.JWTSecret, cfg.TokenTTL)
		r.With(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)).
			Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/auth/logout", authHandler.HandleLogout)

			directoryhandler.NewHandler(directoryService).RegisterRoutes(r)
			taskshandler.NewHandler(tasksService).RegisterRoutes(r)
			reportshandler.NewHandler(reportsService).RegisterRoutes(r)
			messageshandler.NewHandler(messagingService).RegisterRoutes(r)

			r.With(middleware.RequireRoles(rbac.RoleAdmin)).
				Get("/admin/metrics", func(w http.ResponseWriter, req *http.Request) {
					api.Success(w, collector.Snapshot(), requestctx.GetRequestID(req.Context()))
				})
		})
	})

	return router
}

// findMigrationsDir walks up from the working directory so tests running from
// package directories find the repo-root migrations.
func findMigrationsDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "migrations"
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "migrations"
		}
		dir = parent
	}
}
