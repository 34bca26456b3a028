package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinehub/internal/alert"
	"cinehub/internal/client"
	"cinehub/internal/config"
	"cinehub/internal/domain"
	"cinehub/internal/observability"
	"cinehub/internal/repository/tableapi"
	"cinehub/internal/service"
	"cinehub/internal/storage"
	"cinehub/internal/tmdb"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}
	observability.InitLogger(logLevel, logFormat)

	store, err := storage.New(cfg.StateDir)
	if err != nil {
		slog.Error("failed to open local storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Stored preferences override the configured locale defaults.
	var prefs domain.Preferences
	if store.Get(config.KeyUserPreferences, &prefs) {
		if prefs.Language != "" {
			cfg.Language = prefs.Language
		}
		if prefs.Region != "" {
			cfg.Region = prefs.Region
		}
	}

	api := client.New(client.Options{
		MinRequestInterval: cfg.MinRequestInterval,
		Timeout:            cfg.RequestTimeout,
		CacheTTL:           cfg.CacheTTL,
		AuthExemptHosts:    []string{tmdb.Host(cfg.TMDBBaseURL)},
	})

	meta := tmdb.New(api, tmdb.Config{
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		APIKey:       cfg.TMDBAPIKey,
		Language:     cfg.Language,
		Region:       cfg.Region,
		PosterSize:   cfg.PosterSize,
		BackdropSize: cfg.BackdropSize,
	})

	tables := tableapi.NewStore(api, cfg.TableAPIBaseURL)
	userRepo := tableapi.NewUserRepository(tables)
	reviewRepo := tableapi.NewReviewRepository(tables)
	ratingRepo := tableapi.NewRatingRepository(tables)
	watchlistRepo := tableapi.NewWatchlistRepository(tables)

	notifier := terminalNotifier{}
	nav := &pageTracker{page: "home"}

	authService := service.NewAuthService(
		userRepo,
		store,
		api,
		service.BcryptHasher{Cost: bcrypt.DefaultCost},
		service.JWTMinter{Secret: []byte(cfg.SessionSecret), Lifetime: cfg.SessionLifetime},
		cfg,
		nav,
		notifier,
	)
	api.SetTokenSource(authService)

	catalogService := service.NewCatalogService(
		meta, reviewRepo, ratingRepo, watchlistRepo, store, authService, cfg, notifier,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if authService.LoadSession() {
		slog.Debug("restored session",
			slog.String("username", authService.CurrentSession().Username))
	}
	authService.StartMonitor(ctx)

	app := &app{
		cfg:     cfg,
		api:     api,
		meta:    meta,
		auth:    authService,
		catalog: catalogService,
		nav:     nav,
	}

	if len(os.Args) < 2 {
		app.usage()
		os.Exit(2)
	}

	if os.Args[1] == "monitor" {
		runMonitor(ctx, cfg)
		return
	}

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		msg := alert.UserMessage(err)
		// Local errors (bad flags, disabled features) are not server
		// faults; show them as-is.
		var statusErr *client.StatusError
		if msg == alert.MsgServerError && !errors.As(err, &statusErr) {
			msg = err.Error()
		}
		fmt.Fprintln(os.Stderr, "Error:", msg)
		slog.Debug("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMonitor keeps the process alive serving health and metrics while
// the session monitor and offline queue run in the background.
func runMonitor(ctx context.Context, cfg *config.Config) {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.OpsPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("ops listener started", slog.String("port", cfg.OpsPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("ops listener error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("ops listener shutdown error", slog.String("error", err.Error()))
	}
	slog.Info("stopped gracefully")
}

// terminalNotifier prints user-facing messages to stdout; the
// structured log stays on stderr for diagnostics.
type terminalNotifier struct{}

func (terminalNotifier) Notify(level alert.Level, message string) {
	fmt.Printf("[%s] %s\n", level, message)
}

// pageTracker stands in for browser navigation: commands set the page
// they represent, and a logout redirect moves it back home.
type pageTracker struct {
	page string
}

func (p *pageTracker) CurrentPage() string { return p.page }
func (p *pageTracker) Navigate(page string) {
	p.page = page
	slog.Debug("navigated", slog.String("page", page))
}
