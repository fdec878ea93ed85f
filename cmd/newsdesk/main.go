// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/handler/api"
	"newsdesk/internal/logging"
	"newsdesk/internal/middleware"
	"newsdesk/internal/rbac"
	"newsdesk/internal/scheduler"
	"newsdesk/internal/service"
	"newsdesk/internal/session"
	"newsdesk/internal/store"
	"newsdesk/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("newsdesk %s (%s, built %s)\n", appVersion, appGitCommit, appBuildTime)
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	for _, dir := range []string{filepath.Dir(cfg.DBPath), cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("closing database", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Mirror WARN+ records into the event log now that the DB is up.
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, db)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if err := store.SeedDemo(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding demo content: %w", err)
	}

	cacheManager := cache.NewManager(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	defer func() { _ = cacheManager.Close() }()
	categoryCache := cache.NewCategoryCache(cacheManager, time.Duration(cfg.CacheTTL)*time.Second)

	// Services
	events := service.NewEventService(db)
	users := service.NewUserService(db, events)
	articles := service.NewArticleService(db, events)
	categories := service.NewCategoryService(db, events)
	ads := service.NewAdService(db, events)
	media := service.NewMediaService(cfg.UploadsDir, events)

	sessions := session.New(db, cfg.IsDevelopment())
	mw := middleware.New(sessions, users, events)
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	// Handlers
	authHandler := api.NewAuthHandler(sessions, users, loginProtection)
	articleHandler := api.NewArticleHandler(articles)
	categoryHandler := api.NewCategoryHandler(categories, categoryCache)
	userHandler := api.NewUserHandler(users)
	adHandler := api.NewAdHandler(ads)
	mediaHandler := api.NewMediaHandler(media)
	eventHandler := api.NewEventHandler(events)
	publicHandler := api.NewPublicHandler(articles, categories, ads, categoryCache)
	healthHandler := api.NewHealthHandler(db, versionInfo)

	maintenance := scheduler.New(events, cfg.EventRetentionDays)
	if err := maintenance.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(cfg.IsDevelopment()))

	var trustedOrigins []string
	if cfg.IsDevelopment() {
		trustedOrigins = []string{cfg.ServerAddr(), fmt.Sprintf("127.0.0.1:%d", cfg.ServerPort)}
	}
	r.Use(middleware.CSRF([]byte(cfg.SessionSecret), trustedOrigins))

	r.Use(sessions.LoadAndSave)
	r.Use(mw.LoadUser)

	r.Get("/healthz", healthHandler.Health)

	// Public read API
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/articles", publicHandler.ListArticles)
		r.Get("/articles/{slug}", publicHandler.GetArticle)
		r.Get("/categories", publicHandler.ListCategories)
		r.Get("/ads/{location}", publicHandler.ListAds)
	})

	// Auth
	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginProtection.Middleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// Editorial API, authenticated
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RequireAuth)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articleHandler.List)
			r.Post("/", articleHandler.Create)
			r.Get("/{id}", articleHandler.Get)
			r.Put("/{id}", articleHandler.Update)
			r.Delete("/{id}", articleHandler.Delete)
			r.Post("/{id}/submit", articleHandler.Submit)
			r.Post("/{id}/publish", articleHandler.Publish)
			r.Post("/{id}/unpublish", articleHandler.Unpublish)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireCapability(rbac.CapManageCategories))
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Rename)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireCapability(rbac.CapManageUsers))
				r.Get("/", userHandler.List)
				r.Post("/", userHandler.Create)
				r.Delete("/{id}", userHandler.Delete)
			})
		})

		r.Route("/ads", func(r chi.Router) {
			r.Use(mw.RequireCapability(rbac.CapManageAds))
			r.Get("/", adHandler.List)
			r.Post("/", adHandler.Create)
			r.Get("/{id}", adHandler.Get)
			r.Put("/{id}", adHandler.Update)
			r.Delete("/{id}", adHandler.Delete)
		})

		r.Post("/media", mediaHandler.Upload)

		r.With(mw.RequireCapability(rbac.CapManageUsers)).Get("/events", eventHandler.List)
	})

	// Uploaded files
	uploadsDir, err := filepath.Abs(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("resolving uploads dir: %w", err)
	}
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("goodbye")
	return nil
}
