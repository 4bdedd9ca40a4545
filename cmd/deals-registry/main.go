// main is the entry point of the deals-registry server.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the storage backend holding the student slot
//  4. Build the two sessions: the student registry and the deals browser
//  5. Run the initial deals load
//  6. Register all HTTP routes and start the server in a goroutine
//  7. Block until an OS signal (Ctrl+C / kill) arrives
//  8. Gracefully shut down: finish in-flight requests, close storage, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/deals-registry --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/deals-registry
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/deals-registry/internal/config"
	"github.com/aanand-mishra/deals-registry/internal/deals"
	"github.com/aanand-mishra/deals-registry/internal/deals/cheapshark"
	"github.com/aanand-mishra/deals-registry/internal/http/handlers/deal"
	"github.com/aanand-mishra/deals-registry/internal/http/handlers/student"
	"github.com/aanand-mishra/deals-registry/internal/http/middleware"
	"github.com/aanand-mishra/deals-registry/internal/http/pages"
	"github.com/aanand-mishra/deals-registry/internal/metrics"
	"github.com/aanand-mishra/deals-registry/internal/registry"
	"github.com/aanand-mishra/deals-registry/internal/storage/backend"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// The handlers log through the slog package functions, so the
	// configured logger also becomes the default.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting deals-registry",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// backend.Open returns the storage.Storage INTERFACE; nothing past this
	// point knows which driver is behind it.
	storage, err := backend.Open(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("path", cfg.Storage.Path))

	// ── 4. Sessions ───────────────────────────────────────────────────────
	m := metrics.NewRegistry()

	reg := registry.New(
		registry.NewStore(storage, cfg.Storage.Slot, log, m),
		registry.Options{Locale: cfg.Locale, Logger: log, Metrics: m},
	)

	source := cheapshark.New(cheapshark.Config{
		BaseURL:   cfg.Deals.BaseURL,
		StoreID:   cfg.Deals.StoreID,
		Timeout:   cfg.Deals.Timeout,
		RateLimit: cfg.Deals.RateLimit,
	})
	session := deals.NewSession(source, deals.Options{
		Locale:          cfg.Locale,
		InitialPageSize: cfg.Deals.InitialPageSize,
		PageSize:        cfg.Deals.PageSize,
		DedupePages:     cfg.Deals.DedupePages,
		SearchURL:       cfg.Deals.SearchURL,
		Logger:          log,
		Metrics:         m,
	})

	// ── 5. Initial Load ───────────────────────────────────────────────────
	// A failure here is not fatal: the grid shows the transport banner and
	// the reload button retries.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := session.Load(loadCtx); err != nil {
		log.Warn("initial deals load failed", slog.String("error", err.Error()))
	}
	cancelLoad()

	// ── 6. Register HTTP Routes ───────────────────────────────────────────
	// Route table:
	//   POST   /api/students        → register a student
	//   GET    /api/students        → list / search students
	//   GET    /api/students/{id}   → get one student by code
	//   DELETE /api/students/{id}   → delete a student (?confirm=true)
	//   GET    /api/deals           → filtered deals view
	//   POST   /api/deals/reload    → initial load again
	//   POST   /api/deals/more      → next page
	//   GET    /api/deals/{index}   → detail of one deal in the view
	//   GET    /metrics             → Prometheus metrics
	//   HTML pages                   → see pages.Register
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(reg))
	router.HandleFunc("GET /api/students", student.GetList(reg))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(reg))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(reg))

	router.HandleFunc("GET /api/deals", deal.GetList(session))
	router.HandleFunc("POST /api/deals/reload", deal.Reload(session))
	router.HandleFunc("POST /api/deals/more", deal.More(session))
	router.HandleFunc("GET /api/deals/{index}", deal.GetByIndex(session))

	router.Handle("GET /metrics", m.Handler())

	web, err := pages.New(session, reg, cfg.Locale, log)
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}
	web.Register(router)

	server := &http.Server{
		Addr: cfg.HTTPServer.Addr,
		Handler: middleware.Chain(router,
			middleware.RequestID,
			middleware.Recover(log),
			middleware.AccessLog(log, m),
		),

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
	}

	if err := storage.Close(); err != nil {
		log.Error("failed to close storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
