package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"hrms/internal/db"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/reports"
	"hrms/internal/domain/timesheet"
	"hrms/internal/platform/config"
	"hrms/internal/platform/email"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	corehandler "hrms/internal/transport/http/handlers/core"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	reportshandler "hrms/internal/transport/http/handlers/reports"
	timesheethandler "hrms/internal/transport/http/handlers/timesheet"
	"hrms/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Environment == "development" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	collector := metrics.New()
	mailer := email.New(cfg)

	userStore := auth.NewStore(pool)
	coreStore := core.NewStore(pool)
	auditSvc := audit.New(pool)
	notifier := notifications.New(pool, mailer)

	timesheetSvc := timesheet.NewService(timesheet.NewStore(pool))
	leaveSvc := leave.NewService(leave.NewStore(pool), coreStore, notifier)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), coreStore, timesheetSvc.Store(), cfg.PayslipDir, cfg.OvertimeHourlyRate)
	reportsSvc := reports.NewService(reports.NewStore(pool))

	jobsSvc := jobs.New(pool, cfg, leaveSvc)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

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
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", authhandler.NewHandler(userStore, coreStore, auditSvc, cfg.JWTSecret, cfg.JWTTTL).RegisterRoutes)
		corehandler.NewHandler(coreStore, auditSvc).RegisterRoutes(r)
		timesheethandler.NewHandler(timesheetSvc, coreStore, auditSvc, notifier).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, coreStore, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, coreStore, auditSvc, notifier).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, jobsSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifier).RegisterRoutes(r)
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
